package midifile

// ToAbsoluteTicks converts every track's Tick field from delta to
// absolute ticks by running sums within each track (§4.4). A no-op if
// the file is already in absolute state.
func (f *MidiFile) ToAbsoluteTicks() {
	if f.timeState == TicksAbsolute {
		return
	}
	for t := range f.tracks {
		var sum int64
		ev := f.tracks[t].events
		for i := range ev {
			sum += ev[i].Tick
			ev[i].Tick = sum
		}
	}
	f.timeState = TicksAbsolute
}

// ToDeltaTicks converts every track's Tick field from absolute to
// delta ticks (§4.4). Requires tracks already be in non-decreasing
// tick order (the caller should SortTracks first if unsure). A no-op
// if the file is already in delta state.
func (f *MidiFile) ToDeltaTicks() {
	if f.timeState == TicksDelta {
		return
	}
	for t := range f.tracks {
		var prev int64
		ev := f.tracks[t].events
		for i := range ev {
			abs := ev[i].Tick
			ev[i].Tick = abs - prev
			prev = abs
		}
	}
	f.timeState = TicksDelta
}
