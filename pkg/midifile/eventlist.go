package midifile

import "sort"

// EventList is an ordered, index-addressable sequence of MidiEvent,
// the per-track container a MidiFile owns one of per track (C3).
type EventList struct {
	events  []MidiEvent
	nextSeq uint64
}

// Len returns the number of events.
func (l *EventList) Len() int { return len(l.events) }

// At returns the event at index i. It panics on an out-of-range
// index, matching Go slice semantics; callers that want a
// bounds-checked accessor should compare against Len first.
func (l *EventList) At(i int) MidiEvent { return l.events[i] }

// Set replaces the event at index i.
func (l *EventList) Set(i int, e MidiEvent) { l.events[i] = e }

// Last returns the final event and true, or a zero MidiEvent and
// false if the list is empty.
func (l *EventList) Last() (MidiEvent, bool) {
	if len(l.events) == 0 {
		return MidiEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// Append adds an event, assigning the next sequence number if the
// event doesn't already carry a nonzero one from a prior Append/sort
// cycle. Append always runs in amortised O(1).
func (l *EventList) Append(e MidiEvent) {
	if e.Seq == 0 {
		e.Seq = l.nextSeq
	}
	if e.Seq >= l.nextSeq {
		l.nextSeq = e.Seq + 1
	}
	l.events = append(l.events, e)
}

// Clear empties the list and resets sequence numbering.
func (l *EventList) Clear() {
	l.events = nil
	l.nextSeq = 0
}

// EraseEmpties removes every event whose message has a zero-length
// byte payload.
func (l *EventList) EraseEmpties() {
	out := l.events[:0]
	for _, e := range l.events {
		if len(e.Message.Data) > 0 {
			out = append(out, e)
		}
	}
	l.events = out
}

// Sort stably orders the events by the §4.3 comparator. Any existing
// note-pairing links are invalidated by design (Design Notes): sort
// never repairs them, callers must re-run LinkNotePairs afterward.
func (l *EventList) Sort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return less(l.events[i], l.events[j])
	})
}

// MarkSequence renumbers Seq fields 0..n-1 in the list's current
// order, making that order the new tie-break baseline.
func (l *EventList) MarkSequence() {
	for i := range l.events {
		l.events[i].Seq = uint64(i)
	}
	l.nextSeq = uint64(len(l.events))
}

// ClearSequence zeroes every Seq field. Clients that do this before
// Sort opt into the raw semantic ordering (§4.3) without input-order
// tie-breaking.
func (l *EventList) ClearSequence() {
	for i := range l.events {
		l.events[i].Seq = 0
	}
	l.nextSeq = 0
}

// All returns the underlying slice for read-only iteration. Mutating
// the returned slice's elements is safe; changing its length is not —
// use Append/Clear/EraseEmpties instead.
func (l *EventList) All() []MidiEvent { return l.events }
