package midifile

// LinkNotePairs walks each track in absolute-tick order, maintaining a
// per-(channel,key) stack of unmatched note-ons; a note-off pops the
// matching note-on and links both events to each other (§4.5). Excess
// note-offs are ignored. Unmatched note-ons at end of track are left
// unlinked. Idempotent given no intervening mutation.
//
// Requires the file be in absolute tick state; callers in delta state
// should call ToAbsoluteTicks first (this does not silently convert,
// since that would itself be a mutation requiring re-sorting).
func (f *MidiFile) LinkNotePairs() error {
	if f.timeState != TicksAbsolute {
		return newErr(ErrStateViolation, -1, -1, "LinkNotePairs requires absolute tick state")
	}
	for t := range f.tracks {
		f.linkTrack(t)
	}
	return nil
}

type noteKey struct {
	channel byte
	key     int
}

func (f *MidiFile) linkTrack(t int) {
	events := f.tracks[t].events
	stacks := map[noteKey][]int{}

	for i := range events {
		events[i].ClearLink()
	}

	for i := range events {
		msg := events[i].Message
		if !msg.IsChannelVoice() {
			continue
		}
		ch := msg.GetChannelNibble()
		key, err := msg.GetKeyNumber()
		if err != nil {
			continue
		}
		nk := noteKey{ch, key}

		if msg.IsNoteOn() {
			stacks[nk] = append(stacks[nk], i)
			continue
		}
		if msg.IsNoteOff() {
			stack := stacks[nk]
			if len(stack) == 0 {
				continue // excess note-off, ignored per §4.5
			}
			onIdx := stack[len(stack)-1]
			stacks[nk] = stack[:len(stack)-1]

			events[onIdx].LinkedTrack = t
			events[onIdx].LinkedIndex = i
			events[i].LinkedTrack = t
			events[i].LinkedIndex = onIdx
		}
	}
}

// ClearLinks removes every note-pairing link in the file without
// touching seconds or tick data.
func (f *MidiFile) ClearLinks() {
	for t := range f.tracks {
		ev := f.tracks[t].events
		for i := range ev {
			ev[i].ClearLink()
		}
	}
}

// DurationTicks returns the duration in ticks between a linked
// note-on and its note-off: linked.tick - self.tick. Returns an error
// if the event is unlinked.
func (f *MidiFile) DurationTicks(track, index int) (int64, error) {
	e := f.tracks[track].events[index]
	if !e.IsLinked() {
		return 0, newErr(ErrStateViolation, track, -1, "event at index %d is not linked", index)
	}
	other := f.tracks[e.LinkedTrack].events[e.LinkedIndex]
	return other.Tick - e.Tick, nil
}

// DurationSeconds is DurationTicks's seconds-domain counterpart; both
// events must have computed seconds (a tempo analysis must have run).
func (f *MidiFile) DurationSeconds(track, index int) (float64, error) {
	e := f.tracks[track].events[index]
	if !e.IsLinked() {
		return 0, newErr(ErrStateViolation, track, -1, "event at index %d is not linked", index)
	}
	selfSec, ok := e.Seconds()
	if !ok {
		return 0, newErr(ErrStateViolation, track, -1, "event has no computed seconds; run DoTimeAnalysis first")
	}
	other := f.tracks[e.LinkedTrack].events[e.LinkedIndex]
	otherSec, ok := other.Seconds()
	if !ok {
		return 0, newErr(ErrStateViolation, e.LinkedTrack, -1, "linked event has no computed seconds; run DoTimeAnalysis first")
	}
	return otherSec - selfSec, nil
}
