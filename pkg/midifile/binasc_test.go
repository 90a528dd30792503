package midifile

import (
	"strings"
	"testing"
)

func TestBinascRoundTrip(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	if err := f.AddNoteOff(0, 120, 0, 60, 0); err != nil {
		t.Fatal(err)
	}
	if err := f.AddTrackName(0, 0, "lead"); err != nil {
		t.Fatal(err)
	}
	f.SortTracks()

	text, err := f.WriteBinasc()
	if err != nil {
		t.Fatal(err)
	}

	readBack, err := ReadBinasc(text)
	if err != nil {
		t.Fatalf("ReadBinasc failed on WriteBinasc's own output: %v\n---\n%s", err, text)
	}
	readBack.ToAbsoluteTicks()

	track := readBack.Track(0)
	found := false
	for i := 0; i < track.Len(); i++ {
		e := track.At(i)
		if e.Message.IsNoteOn() && e.Tick == 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("round-tripped binasc lost the note-on event")
	}
}

func TestHexRoundTrip(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)

	hexStr, err := f.WriteHex()
	if err != nil {
		t.Fatal(err)
	}
	readBack, err := ReadHex(hexStr)
	if err != nil {
		t.Fatal(err)
	}
	if readBack.TrackCount() != f.TrackCount() {
		t.Fatal("hex round trip changed track count")
	}
}

func TestBase64RoundTrip(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)

	b64, err := f.WriteBase64()
	if err != nil {
		t.Fatal(err)
	}
	readBack, err := ReadBase64(b64)
	if err != nil {
		t.Fatal(err)
	}
	if readBack.TrackCount() != f.TrackCount() {
		t.Fatal("base64 round trip changed track count")
	}
}

func TestWriteHexWithLineWidthWrapsAndRoundTrips(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	if err := f.AddNoteOff(0, 120, 0, 60, 0); err != nil {
		t.Fatal(err)
	}

	hexStr, err := f.WriteHex(WithLineWidth(8))
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(hexStr, "\n") {
		if len(line) > 8 {
			t.Fatalf("line %q exceeds requested width 8", line)
		}
	}

	readBack, err := ReadHex(hexStr)
	if err != nil {
		t.Fatalf("ReadHex failed on wrapped output: %v", err)
	}
	if readBack.TrackCount() != f.TrackCount() {
		t.Fatal("wrapped hex round trip changed track count")
	}
}

func TestWriteBase64WithLineWidthWrapsAndRoundTrips(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)

	b64, err := f.WriteBase64(WithLineWidth(16))
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(b64, "\n") {
		if len(line) > 16 {
			t.Fatalf("line %q exceeds requested width 16", line)
		}
	}

	readBack, err := ReadBase64(b64)
	if err != nil {
		t.Fatalf("ReadBase64 failed on wrapped output: %v", err)
	}
	if readBack.TrackCount() != f.TrackCount() {
		t.Fatal("wrapped base64 round trip changed track count")
	}
}

func TestWriteBinascWithoutComments(t *testing.T) {
	f := New()
	mustAddNoteOn(t, f, 0, 0, 0, 60, 64)
	if err := f.AddNoteOff(0, 120, 0, 60, 0); err != nil {
		t.Fatal(err)
	}

	text, err := f.WriteBinasc(WithoutBinascComments())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, ";") {
		t.Fatalf("WithoutBinascComments left a comment in the output:\n%s", text)
	}

	readBack, err := ReadBinasc(text)
	if err != nil {
		t.Fatalf("ReadBinasc failed on comment-free output: %v\n---\n%s", err, text)
	}
	if readBack.TrackCount() != f.TrackCount() {
		t.Fatal("comment-free binasc round trip changed track count")
	}
}
