package midifile

import "testing"

func TestNoteOnOffClassification(t *testing.T) {
	on, err := NewNoteOn(0, 60, 64)
	if err != nil {
		t.Fatal(err)
	}
	if !on.IsNoteOn() || on.IsNoteOff() {
		t.Fatal("velocity-64 note-on misclassified")
	}

	zeroVelOn, err := NewNoteOn(0, 60, 0)
	if err != nil {
		t.Fatal(err)
	}
	if zeroVelOn.IsNoteOn() || !zeroVelOn.IsNoteOff() {
		t.Fatal("zero-velocity note-on should classify as a note-off")
	}

	off, err := NewNoteOff(0, 60, 64)
	if err != nil {
		t.Fatal(err)
	}
	if off.IsNoteOn() || !off.IsNoteOff() {
		t.Fatal("0x80 note-off misclassified")
	}
}

func TestGetKeyNumberWrongKind(t *testing.T) {
	msg, _ := NewController(0, 7, 100)
	if _, err := msg.GetKeyNumber(); err == nil {
		t.Fatal("expected WrongKind error for a controller message")
	}
}

func TestTempoAccessors(t *testing.T) {
	msg, err := NewTempo(120)
	if err != nil {
		t.Fatal(err)
	}
	if !msg.IsTempo() {
		t.Fatal("NewTempo(120) did not classify as a tempo event")
	}
	us, err := msg.GetMicrosecondsPerQuarter()
	if err != nil {
		t.Fatal(err)
	}
	if us != 500000 {
		t.Fatalf("120 BPM = %d us/quarter, want 500000", us)
	}
	bpm, err := msg.GetTempoBPM()
	if err != nil {
		t.Fatal(err)
	}
	if bpm < 119.999 || bpm > 120.001 {
		t.Fatalf("GetTempoBPM() = %v, want ~120", bpm)
	}
}

func TestSysExPayloadExcludesLengthAndStatus(t *testing.T) {
	payload := []byte{0x41, 0x10, 0x42, 0x12, 0x00, 0x01, 0xF7}
	msg, err := NewSysEx(payload)
	if err != nil {
		t.Fatal(err)
	}
	got, err := msg.GetSysExPayload()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(payload) {
		t.Fatalf("GetSysExPayload() length = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("GetSysExPayload()[%d] = %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestMetaTextRoundTrip(t *testing.T) {
	msg, err := NewTrackName("Violin I")
	if err != nil {
		t.Fatal(err)
	}
	text, err := msg.GetText()
	if err != nil {
		t.Fatal(err)
	}
	if text != "Violin I" {
		t.Fatalf("GetText() = %q, want %q", text, "Violin I")
	}
}
