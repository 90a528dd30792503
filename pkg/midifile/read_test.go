package midifile

import (
	"bytes"
	"testing"
)

// TestEmptyWriteScenario is scenario S1: a default MidiFile writes to
// an exact 26-byte sequence (MThd + a single end-of-track-only MTrk),
// given the default TPQ of 48.
func TestEmptyWriteScenario(t *testing.T) {
	f := New()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	want := []byte{
		0x4D, 0x54, 0x68, 0x64, 0x00, 0x00, 0x00, 0x06,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x30,
		0x4D, 0x54, 0x72, 0x6B, 0x00, 0x00, 0x00, 0x04,
		0x00, 0xFF, 0x2F, 0x00,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("empty file wrote\n% X\nwant\n% X", buf.Bytes(), want)
	}
}

// TestRunningStatusDecodeScenario is scenario S4: "00 90 3C 40 10 3C
// 00" decodes to a velocity-64 note-on at tick 0 and a zero-velocity
// note-on (classified as a note-off) at tick 16, both channel 0 key 60.
func TestRunningStatusDecodeScenario(t *testing.T) {
	trackBody := []byte{0x00, 0x90, 0x3C, 0x40, 0x10, 0x3C, 0x00}

	var buf bytes.Buffer
	buf.Write([]byte("MThd"))
	buf.Write([]byte{0x00, 0x00, 0x00, 0x06})
	buf.Write([]byte{0x00, 0x00}) // format 0
	buf.Write([]byte{0x00, 0x01}) // 1 track
	buf.Write([]byte{0x00, 0x18}) // tpq 24
	buf.Write([]byte("MTrk"))
	buf.Write([]byte{0x00, 0x00, 0x00, byte(len(trackBody))})
	buf.Write(trackBody)

	f, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	track := f.Track(0)
	if track.Len() != 2 {
		t.Fatalf("decoded %d events, want 2", track.Len())
	}

	first := track.At(0)
	if first.Tick != 0 {
		t.Fatalf("first event tick = %d, want 0", first.Tick)
	}
	if ch := first.Message.GetChannelNibble(); ch != 0 {
		t.Fatalf("first event channel = %d, want 0", ch)
	}
	if key, _ := first.Message.GetKeyNumber(); key != 60 {
		t.Fatalf("first event key = %d, want 60", key)
	}
	if vel, _ := first.Message.GetVelocity(); vel != 64 {
		t.Fatalf("first event velocity = %d, want 64", vel)
	}

	second := track.At(1)
	if second.Tick != 16 {
		t.Fatalf("second event tick = %d, want 16", second.Tick)
	}
	if !second.Message.IsNoteOff() {
		t.Fatal("running-status zero-velocity note-on must classify as IsNoteOff")
	}
}

// TestWriteReadRoundTrip verifies §8 property 1: a file written then
// re-read reproduces the same (track, tick, message bytes) tuples in
// absolute tick state.
func TestWriteReadRoundTrip(t *testing.T) {
	f := New()
	f.AddTrack(1)
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	if err := f.AddNoteOff(0, 120, 0, 60, 0); err != nil {
		t.Fatal(err)
	}
	mustAddNoteOn(t, f, 1, 0, 1, 67, 80)
	if err := f.AddNoteOff(1, 240, 1, 67, 0); err != nil {
		t.Fatal(err)
	}
	f.SortTracks()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	readBack, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	readBack.ToAbsoluteTicks()

	if readBack.TrackCount() != f.TrackCount() {
		t.Fatalf("track count changed across write/read: %d vs %d", readBack.TrackCount(), f.TrackCount())
	}
	for trk := 0; trk < f.TrackCount(); trk++ {
		orig := f.Track(trk)
		got := readBack.Track(trk)
		// the round trip appends an EndOfTrack if one is missing; here
		// every track already ends with a note-off, so account for it.
		n := orig.Len()
		if got.Len() != n+1 {
			t.Fatalf("track %d has %d events after round trip, want %d (+EOT)", trk, got.Len(), n+1)
		}
		for i := 0; i < n; i++ {
			oe, ge := orig.At(i), got.At(i)
			if oe.Tick != ge.Tick {
				t.Fatalf("track %d event %d tick changed: %d vs %d", trk, i, oe.Tick, ge.Tick)
			}
			if !bytes.Equal(oe.Message.Data, ge.Message.Data) {
				t.Fatalf("track %d event %d message bytes changed", trk, i)
			}
		}
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("NOPE"))); err == nil {
		t.Fatal("expected MalformedHeader for a non-MThd stream")
	}
}

func TestReadToleratesMissingEndOfTrack(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte("MThd"))
	buf.Write([]byte{0x00, 0x00, 0x00, 0x06})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x18})
	body := []byte{0x00, 0x90, 0x3C, 0x40}
	buf.Write([]byte("MTrk"))
	buf.Write([]byte{0x00, 0x00, 0x00, byte(len(body))})
	buf.Write(body)

	f, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Warnings()) == 0 {
		t.Fatal("expected a soft warning for a track missing its end-of-track event")
	}

	buf.Reset()
	buf.Write([]byte("MThd"))
	buf.Write([]byte{0x00, 0x00, 0x00, 0x06})
	buf.Write([]byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x18})
	buf.Write([]byte("MTrk"))
	buf.Write([]byte{0x00, 0x00, 0x00, byte(len(body))})
	buf.Write(body)
	if _, err := Read(&buf, WithStrict()); err == nil {
		t.Fatal("expected a hard error under WithStrict for a missing end-of-track event")
	}
}
