package midifile

import "testing"

// TestJoinSplitIdentity verifies §8 property 3: join_tracks followed
// by split_tracks is the identity when no intervening mutation occurs.
func TestJoinSplitIdentity(t *testing.T) {
	f := New()
	f.AddTrack(2) // tracks 1, 2, alongside track 0

	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	mustAddNoteOn(t, f, 1, 10, 1, 62, 64)
	mustAddNoteOn(t, f, 2, 20, 2, 64, 64)
	f.SortTracks()

	before := snapshotTracks(f)

	f.JoinTracks()
	f.SplitTracks()

	after := snapshotTracks(f)

	if len(before) != len(after) {
		t.Fatalf("track count changed: %d before, %d after", len(before), len(after))
	}
	for t_ := range before {
		if len(before[t_]) != len(after[t_]) {
			t.Fatalf("track %d event count changed: %d before, %d after", t_, len(before[t_]), len(after[t_]))
		}
		for i := range before[t_] {
			a, b := before[t_][i], after[t_][i]
			if a.Tick != b.Tick || string(a.Message.Data) != string(b.Message.Data) {
				t.Fatalf("track %d event %d changed across join/split", t_, i)
			}
		}
	}
}

func TestJoinTracksSortsAcrossTracks(t *testing.T) {
	f := New()
	f.AddTrack(1)
	mustAddNoteOn(t, f, 0, 100, 0, 60, 64)
	mustAddNoteOn(t, f, 1, 50, 0, 62, 64)

	f.JoinTracks()

	if f.TrackCount() != 1 {
		t.Fatalf("JoinTracks left %d tracks, want 1", f.TrackCount())
	}
	if f.Track(0).At(0).Tick != 50 {
		t.Fatalf("JoinTracks did not sort across tracks: first tick = %d, want 50", f.Track(0).At(0).Tick)
	}
}

func TestSplitTracksByChannelRequiresJoined(t *testing.T) {
	f := New()
	if err := f.SplitTracksByChannel(); err == nil {
		t.Fatal("expected StateViolation calling SplitTracksByChannel on a split file")
	}
}

func TestSplitTracksByChannelPartitionsByChannel(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	mustAddNoteOn(t, f, 0, 0, 1, 62, 64)
	f.JoinTracks()

	if err := f.SplitTracksByChannel(); err != nil {
		t.Fatal(err)
	}
	if f.TrackCount() != 3 { // conductor + channel 0 + channel 1
		t.Fatalf("SplitTracksByChannel produced %d tracks, want 3", f.TrackCount())
	}
}

func mustAddNoteOn(t *testing.T, f *MidiFile, track int, tick int64, channel, key, velocity int) {
	t.Helper()
	if err := f.AddNoteOn(track, tick, channel, key, velocity); err != nil {
		t.Fatal(err)
	}
}

func snapshotTracks(f *MidiFile) [][]MidiEvent {
	out := make([][]MidiEvent, f.TrackCount())
	for i := 0; i < f.TrackCount(); i++ {
		out[i] = append([]MidiEvent(nil), f.Track(i).All()...)
	}
	return out
}
