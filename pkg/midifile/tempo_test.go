package midifile

import "testing"

// TestTempoMapScenario is scenario S3: a 120 BPM tempo at tick 0 with
// TPQ=120 puts a tick-240 event at 1.0 seconds; adding a 240 BPM
// tempo at tick 120 and re-running DoTimeAnalysis moves it to 0.75.
func TestTempoMapScenario(t *testing.T) {
	f := New()
	if err := f.SetTPQ(120); err != nil {
		t.Fatal(err)
	}
	if err := f.AddTempo(0, 0, 120); err != nil {
		t.Fatal(err)
	}
	if err := f.AddNoteOn(0, 240, 0, 60, 64); err != nil {
		t.Fatal(err)
	}

	if err := f.DoTimeAnalysis(); err != nil {
		t.Fatal(err)
	}

	noteEvent := findNoteOn(t, f, 240)
	sec, ok := noteEvent.Seconds()
	if !ok {
		t.Fatal("note-on has no computed seconds after DoTimeAnalysis")
	}
	if !within(sec, 1.0, 1e-9) {
		t.Fatalf("seconds at tick 240 = %v, want 1.0", sec)
	}

	if err := f.AddTempo(0, 120, 240); err != nil {
		t.Fatal(err)
	}
	if err := f.DoTimeAnalysis(); err != nil {
		t.Fatal(err)
	}

	noteEvent = findNoteOn(t, f, 240)
	sec, ok = noteEvent.Seconds()
	if !ok {
		t.Fatal("note-on has no computed seconds after second DoTimeAnalysis")
	}
	if !within(sec, 0.75, 1e-9) {
		t.Fatalf("seconds at tick 240 after tempo change = %v, want 0.75", sec)
	}
}

func findNoteOn(t *testing.T, f *MidiFile, tick int64) MidiEvent {
	t.Helper()
	track := f.Track(0)
	for i := 0; i < track.Len(); i++ {
		e := track.At(i)
		if e.Tick == tick && e.Message.IsNoteOn() {
			return e
		}
	}
	t.Fatalf("no note-on found at tick %d", tick)
	return MidiEvent{}
}

func within(got, want, eps float64) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= eps
}

// TestTempoMapRateInvariant verifies §8 property 5: consecutive
// tempo-map entries' seconds delta equals ticks delta times the
// segment's seconds-per-tick.
func TestTempoMapRateInvariant(t *testing.T) {
	f := New()
	if err := f.SetTPQ(96); err != nil {
		t.Fatal(err)
	}
	if err := f.AddTempo(0, 0, 100); err != nil {
		t.Fatal(err)
	}
	if err := f.AddTempo(0, 480, 180); err != nil {
		t.Fatal(err)
	}
	if err := f.AddTempo(0, 960, 60); err != nil {
		t.Fatal(err)
	}
	if err := f.AddNoteOn(0, 1440, 0, 60, 64); err != nil {
		t.Fatal(err)
	}

	if err := f.DoTimeAnalysis(); err != nil {
		t.Fatal(err)
	}

	m := f.tempoMap
	for i := 1; i < len(m.points); i++ {
		prev, cur := m.points[i-1], m.points[i]
		want := prev.seconds + float64(cur.tick-prev.tick)*prev.secPerTick
		if !within(cur.seconds, want, 1e-9) {
			t.Fatalf("tempo map point %d: seconds=%v, want %v (rate invariant)", i, cur.seconds, want)
		}
	}
}

func TestTimeInSecondsInvalidWithoutAnalysis(t *testing.T) {
	f := New()
	if f.TimeInSeconds(100) != -1 {
		t.Fatal("TimeInSeconds should return -1 before DoTimeAnalysis has run")
	}
}
