package midifile

// sortPriority implements the ordering of §4.3 points 2-5: lower
// values sort earlier at the same tick. End-of-track always sorts
// last; other meta events sort first; pitch-bend and note-off/
// zero-velocity note-on sort before note-on; everything else falls in
// between.
func sortPriority(m MidiMessage) int {
	if m.IsMeta() {
		if t, err := m.GetMetaType(); err == nil && t == MetaEndOfTrack {
			return 100
		}
		return 0
	}
	if m.GetCommandNibble() == CmdPitchBend {
		return 1
	}
	if m.IsNoteOff() {
		return 2
	}
	if m.IsNoteOn() {
		return 4
	}
	return 3
}

// less implements the total order of §4.3: ascending tick, then
// sortPriority, then ascending key number (so simultaneous note-offs
// and note-ons are grouped predictably), then ascending Seq.
func less(a, b MidiEvent) bool {
	if a.Tick != b.Tick {
		return a.Tick < b.Tick
	}
	pa, pb := sortPriority(a.Message), sortPriority(b.Message)
	if pa != pb {
		return pa < pb
	}
	ka, errA := a.Message.GetKeyNumber()
	kb, errB := b.Message.GetKeyNumber()
	if errA == nil && errB == nil && ka != kb {
		return ka < kb
	}
	return a.Seq < b.Seq
}
