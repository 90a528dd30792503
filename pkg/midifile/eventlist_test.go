package midifile

import "testing"

func TestEventListAppendAssignsSequence(t *testing.T) {
	var list EventList
	list.Append(NewEvent(0, 0, NewEndOfTrack()))
	list.Append(NewEvent(0, 10, NewEndOfTrack()))
	if list.At(0).Seq != 0 || list.At(1).Seq != 1 {
		t.Fatalf("Append did not assign monotonic Seq: got %d, %d", list.At(0).Seq, list.At(1).Seq)
	}
}

func TestEraseEmpties(t *testing.T) {
	var list EventList
	list.Append(NewEvent(0, 0, MidiMessage{}))
	list.Append(NewEvent(0, 0, NewEndOfTrack()))
	list.EraseEmpties()
	if list.Len() != 1 {
		t.Fatalf("EraseEmpties left %d events, want 1", list.Len())
	}
}

func TestMarkAndClearSequence(t *testing.T) {
	var list EventList
	list.Append(NewEvent(0, 0, NewEndOfTrack()))
	list.Append(NewEvent(0, 0, NewEndOfTrack()))
	list.ClearSequence()
	if list.At(0).Seq != 0 || list.At(1).Seq != 0 {
		t.Fatal("ClearSequence did not zero every Seq")
	}
	list.MarkSequence()
	if list.At(0).Seq != 0 || list.At(1).Seq != 1 {
		t.Fatal("MarkSequence did not renumber in current order")
	}
}
