package midifile

// MidiEvent pairs a MidiMessage with its timing and bookkeeping
// fields: the tick (delta or absolute, per the owning MidiFile's
// TimeState), the originating track, a monotonically assigned
// sequence number that breaks sort ties, the event's time in seconds
// (valid only after a tempo analysis), and a weak back-link to a
// paired note-on/note-off expressed as a (track, index) pair rather
// than a pointer (Design Notes).
type MidiEvent struct {
	Tick    int64
	Track   int
	Seq     uint64
	Message MidiMessage

	hasSeconds bool
	seconds    float64

	LinkedTrack int // -1 if unlinked
	LinkedIndex int // -1 if unlinked
}

// NewEvent builds an event with no link and no computed seconds.
func NewEvent(track int, tick int64, msg MidiMessage) MidiEvent {
	return MidiEvent{
		Track:       track,
		Tick:        tick,
		Message:     msg,
		LinkedTrack: -1,
		LinkedIndex: -1,
	}
}

// Seconds returns the event's computed time in seconds and whether a
// tempo analysis has populated it (§3 MidiEvent invariants).
func (e MidiEvent) Seconds() (float64, bool) {
	return e.seconds, e.hasSeconds
}

// SetSeconds records the event's computed time; called only by the
// tempo-map pass.
func (e *MidiEvent) SetSeconds(s float64) {
	e.seconds = s
	e.hasSeconds = true
}

// ClearSeconds invalidates the computed time, used whenever a
// mutation that changes ticks or structure occurs (§5).
func (e *MidiEvent) ClearSeconds() {
	e.hasSeconds = false
	e.seconds = 0
}

// IsLinked reports whether the pairing pass has linked this event to
// a note-on/note-off partner.
func (e MidiEvent) IsLinked() bool {
	return e.LinkedIndex >= 0
}

// ClearLink removes any note-pairing link.
func (e *MidiEvent) ClearLink() {
	e.LinkedTrack = -1
	e.LinkedIndex = -1
}
