package midifile

// MidiFile is the top-level object owning a sequence of tracks, the
// file's time base, and the cached tempo map (C4). It exclusively
// owns its tracks; nothing else holds a reference into them.
type MidiFile struct {
	tracks     []EventList
	tpq        int16 // or encoded SMPTE, per §3
	timeState  TimeState
	trackState TrackState

	tempoMap      tempoMap
	tempoMapValid bool

	savedTracks      []EventList
	savedTracksValid bool

	lastReadWriteOK bool
	warnings        []Warning
}

// Warning is a non-fatal condition tolerated during Read (§4.8 "soft"
// conditions), returned to the caller rather than only logged.
type Warning struct {
	Track   int
	Message string
}

// New returns an empty MidiFile: one track, no events, the default
// ticks-per-quarter-note time base, absolute tick state.
func New() *MidiFile {
	return &MidiFile{
		tracks:          make([]EventList, 1),
		tpq:             DefaultTicksPerQuarterNote,
		timeState:       TicksAbsolute,
		trackState:      TracksSplit,
		lastReadWriteOK: true,
	}
}

// TrackCount returns the number of tracks.
func (f *MidiFile) TrackCount() int { return len(f.tracks) }

// Track returns a pointer to the i-th track's EventList for direct
// mutation. It panics on an out-of-range index.
func (f *MidiFile) Track(i int) *EventList { return &f.tracks[i] }

// TPQ returns the ticks-per-quarter-note time base, or 0 if the file
// uses an SMPTE time base (use SMPTE to decode that case).
func (f *MidiFile) TPQ() int {
	if f.tpq < 0 {
		return 0
	}
	return int(f.tpq)
}

// SMPTE returns the (framesPerSecond, ticksPerFrame) pair when the
// time base's sign bit is set, or (0, 0) for a PPQN file.
func (f *MidiFile) SMPTE() (fps int, ticksPerFrame int) {
	if f.tpq >= 0 {
		return 0, 0
	}
	raw := uint16(f.tpq)
	negFps := int8(raw >> 8)
	return int(-negFps), int(raw & 0xFF)
}

// SetTPQ sets a PPQN time base. It invalidates the tempo map.
func (f *MidiFile) SetTPQ(tpq int) error {
	if tpq <= 0 || tpq > 0x7FFF {
		return newErr(ErrInvalidParameter, -1, -1, "tpq=%d out of range", tpq)
	}
	f.tpq = int16(tpq)
	f.invalidateTempoMap()
	return nil
}

// rawDivision returns the 16-bit MThd division field.
func (f *MidiFile) rawDivision() int16 { return f.tpq }

func (f *MidiFile) setRawDivision(v int16) { f.tpq = v }

// SetMillisecondTPQ sets an SMPTE-style time base of 25 frames/sec x
// 40 ticks/frame, the original library's "ticks are milliseconds"
// convention (1000 ticks/sec).
func (f *MidiFile) SetMillisecondTPQ() {
	fps := int8(-25)
	f.tpq = int16(uint16(uint8(fps))<<8 | 40)
	f.invalidateTempoMap()
}

// TimeState returns whether tick fields are delta or absolute.
func (f *MidiFile) TimeState() TimeState { return f.timeState }

// TrackState returns whether tracks are split (original layout) or
// joined (flattened into track 0).
func (f *MidiFile) TrackState() TrackState { return f.trackState }

// Status mirrors the outcome of the most recent Read or Write call
// (the rwstatus convenience accessor of §3).
func (f *MidiFile) Status() bool { return f.lastReadWriteOK }

// Warnings returns the soft conditions (§4.8) tolerated by the most
// recent Read.
func (f *MidiFile) Warnings() []Warning { return f.warnings }

func (f *MidiFile) invalidateTempoMap() {
	f.tempoMapValid = false
	f.savedTracksValid = false
	f.savedTracks = nil
}

func (f *MidiFile) clearAllLinks() {
	for t := range f.tracks {
		ev := f.tracks[t].events
		for i := range ev {
			ev[i].ClearLink()
			ev[i].ClearSeconds()
		}
	}
}

// AddTrack appends n new empty tracks and returns the index of the
// first one added.
func (f *MidiFile) AddTrack(n int) int {
	start := len(f.tracks)
	f.tracks = append(f.tracks, make([]EventList, n)...)
	return start
}

// DeleteTrack removes track i, shifting subsequent tracks down by one
// and renumbering every remaining event's Track field and any
// note-pairing link that pointed at a shifted track (SPEC_FULL.md
// Supplemented Features).
func (f *MidiFile) DeleteTrack(i int) error {
	if i < 0 || i >= len(f.tracks) {
		return newErr(ErrInvalidParameter, -1, -1, "track index %d out of range", i)
	}
	f.tracks = append(f.tracks[:i], f.tracks[i+1:]...)
	for t := range f.tracks {
		ev := f.tracks[t].events
		for k := range ev {
			if ev[k].Track > i {
				ev[k].Track--
			}
			if ev[k].IsLinked() {
				if ev[k].LinkedTrack == i {
					ev[k].ClearLink()
				} else if ev[k].LinkedTrack > i {
					ev[k].LinkedTrack--
				}
			}
		}
	}
	f.invalidateTempoMap()
	return nil
}

// AddEvent appends an event to the given track at the given tick.
// The tick is interpreted per the file's current TimeState.
func (f *MidiFile) AddEvent(track int, tick int64, msg MidiMessage) error {
	if track < 0 || track >= len(f.tracks) {
		return newErr(ErrInvalidParameter, -1, -1, "track index %d out of range", track)
	}
	f.tracks[track].Append(NewEvent(track, tick, msg))
	f.invalidateTempoMap()
	return nil
}

func (f *MidiFile) addBuilt(track int, tick int64, msg MidiMessage, err error) error {
	if err != nil {
		return err
	}
	return f.AddEvent(track, tick, msg)
}

func (f *MidiFile) AddNoteOn(track int, tick int64, channel, key, velocity int) error {
	msg, err := NewNoteOn(channel, key, velocity)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddNoteOff(track int, tick int64, channel, key, velocity int) error {
	msg, err := NewNoteOff(channel, key, velocity)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddController(track int, tick int64, channel, number, value int) error {
	msg, err := NewController(channel, number, value)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddPatchChange(track int, tick int64, channel, program int) error {
	msg, err := NewPatchChange(channel, program)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddPitchBend(track int, tick int64, channel int, amount float64) error {
	msg, err := NewPitchBend(channel, amount)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddTempo(track int, tick int64, bpm float64) error {
	msg, err := NewTempo(bpm)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddTimeSignature(track int, tick int64, numerator, denominator, clocksPerClick, thirtySecondsPerQuarter int) error {
	msg, err := NewTimeSignature(numerator, denominator, clocksPerClick, thirtySecondsPerQuarter)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddKeySignature(track int, tick int64, sharpsFlats, mode int) error {
	msg, err := NewKeySignature(sharpsFlats, mode)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddText(track int, tick int64, text string) error {
	msg, _ := NewText(text)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddLyric(track int, tick int64, text string) error {
	msg, _ := NewLyric(text)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddTrackName(track int, tick int64, name string) error {
	msg, _ := NewTrackName(name)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddMarker(track int, tick int64, text string) error {
	msg, _ := NewMarker(text)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddCopyright(track int, tick int64, text string) error {
	msg, _ := NewCopyright(text)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddInstrumentName(track int, tick int64, name string) error {
	msg, _ := NewInstrumentName(name)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddCue(track int, tick int64, text string) error {
	msg, _ := NewCue(text)
	return f.addBuilt(track, tick, msg, nil)
}

func (f *MidiFile) AddMTS2(track int, tick int64, device, program int, tunings []KeyTuning) error {
	msg, err := NewMTS2(device, program, tunings)
	return f.addBuilt(track, tick, msg, err)
}

func (f *MidiFile) AddMTS9(track int, tick int64, device int, channelBitmap [2]byte, offsetsCents14 [12]int) error {
	msg, err := NewMTS9(device, channelBitmap, offsetsCents14)
	return f.addBuilt(track, tick, msg, err)
}

// SortTracks sorts every track by the §4.3 comparator and clears all
// note-pairing links and computed seconds, per §5's invalidation rule.
func (f *MidiFile) SortTracks() {
	for t := range f.tracks {
		f.tracks[t].Sort()
	}
	f.clearAllLinks()
	f.invalidateTempoMap()
}

// SortTrack sorts a single track.
func (f *MidiFile) SortTrack(i int) error {
	if i < 0 || i >= len(f.tracks) {
		return newErr(ErrInvalidParameter, -1, -1, "track index %d out of range", i)
	}
	f.tracks[i].Sort()
	for k := range f.tracks[i].events {
		f.tracks[i].events[k].ClearLink()
		f.tracks[i].events[k].ClearSeconds()
	}
	f.invalidateTempoMap()
	return nil
}

// MarkSequence renumbers every track's sequence numbers in current
// order.
func (f *MidiFile) MarkSequence() {
	for t := range f.tracks {
		f.tracks[t].MarkSequence()
	}
}

// ClearSequence zeroes every track's sequence numbers (§4.2).
func (f *MidiFile) ClearSequence() {
	for t := range f.tracks {
		f.tracks[t].ClearSequence()
	}
}

// MaxTick returns the largest tick value across all tracks, 0 for an
// empty file. The file must be in absolute tick state for this to be
// meaningful.
func (f *MidiFile) MaxTick() int64 {
	var max int64
	for t := range f.tracks {
		for _, e := range f.tracks[t].events {
			if e.Tick > max {
				max = e.Tick
			}
		}
	}
	return max
}

// FileDurationInTicks is an alias for MaxTick, named per §6.
func (f *MidiFile) FileDurationInTicks() int64 { return f.MaxTick() }

// FileDurationInQuarters returns FileDurationInTicks divided by TPQ,
// per SPEC_FULL.md's Domain Stack grounding on smfdur.cpp/miditickdur.cpp.
func (f *MidiFile) FileDurationInQuarters() (float64, error) {
	tpq := f.TPQ()
	if tpq == 0 {
		return 0, newErr(ErrStateViolation, -1, -1, "file uses an SMPTE time base, not PPQN")
	}
	return float64(f.FileDurationInTicks()) / float64(tpq), nil
}
