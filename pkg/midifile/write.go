package midifile

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
	"strings"
)

// Write serializes the file to w in Standard MIDI File format (§4.9).
// In absolute tick state each track is sorted and converted to delta
// ticks; in delta state the events are written in their current order; an
// EndOfTrack meta event is appended to any track that lacks one as its
// final event. The file's own tick/track state is left as it was
// found (a local copy is serialized, the receiver is not mutated),
// except for Status, which records the outcome.
func (f *MidiFile) Write(w io.Writer) error {
	err := f.write(w)
	f.lastReadWriteOK = err == nil
	return err
}

func (f *MidiFile) write(w io.Writer) error {
	tracks := f.snapshotForWrite()

	format := int16(0)
	if len(tracks) > 1 {
		format = 1
	}

	if _, err := w.Write([]byte("MThd")); err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing MThd magic")
	}
	if err := writeU32BE(w, 6); err != nil {
		return err
	}
	if err := writeI16BE(w, format); err != nil {
		return err
	}
	if err := writeI16BE(w, int16(len(tracks))); err != nil {
		return err
	}
	if err := writeI16BE(w, f.rawDivision()); err != nil {
		return err
	}

	for t := range tracks {
		if err := writeTrack(w, tracks[t]); err != nil {
			return wrapErr(ErrIoFailed, t, -1, err, "writing track %d", t)
		}
	}
	return nil
}

// snapshotForWrite returns delta-tick, EOT-terminated copies of every
// track without mutating the receiver; tracks held in absolute ticks
// are sorted before their deltas are computed.
func (f *MidiFile) snapshotForWrite() []EventList {
	out := make([]EventList, len(f.tracks))
	for t := range f.tracks {
		events := append([]MidiEvent(nil), f.tracks[t].events...)
		list := EventList{events: events}

		if f.timeState == TicksAbsolute {
			list.Sort()
			var prev int64
			for i := range list.events {
				abs := list.events[i].Tick
				list.events[i].Tick = abs - prev
				prev = abs
			}
		}

		if n := len(list.events); n == 0 || !list.events[n-1].Message.IsMeta() || mustMetaType(list.events[n-1].Message) != MetaEndOfTrack {
			list.events = append(list.events, NewEvent(t, 0, NewEndOfTrack()))
		}
		out[t] = list
	}
	return out
}

func mustMetaType(m MidiMessage) byte {
	t, err := m.GetMetaType()
	if err != nil {
		return 0
	}
	return t
}

func writeTrack(w io.Writer, list EventList) error {
	var body bytes.Buffer
	for _, e := range list.events {
		if e.Tick < 0 {
			return newErr(ErrInvalidParameter, -1, -1, "negative delta tick %d", e.Tick)
		}
		if err := writeVLV(&body, uint32(e.Tick)); err != nil {
			return err
		}
		if _, err := body.Write(e.Message.Data); err != nil {
			return wrapErr(ErrIoFailed, -1, -1, err, "writing event bytes")
		}
	}

	if _, err := w.Write([]byte("MTrk")); err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing MTrk magic")
	}
	if err := writeU32BE(w, uint32(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	if err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing track body")
	}
	return nil
}

// WriteFile is a convenience wrapper writing to a path.
func (f *MidiFile) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		f.lastReadWriteOK = false
		return wrapErr(ErrIoFailed, -1, -1, err, "creating %s", path)
	}
	defer file.Close()
	return f.Write(file)
}

// WriteOption configures the text-format writers (WriteHex,
// WriteBase64, WriteBinasc), mirroring ReadOption's functional-options
// shape rather than a global mutable Options struct.
type WriteOption func(*writeConfig)

type writeConfig struct {
	lineWidth      int // 0 means the whole encoding on one line
	binascComments bool
}

func defaultWriteConfig() writeConfig {
	return writeConfig{lineWidth: 0, binascComments: true}
}

// WithLineWidth wraps WriteHex/WriteBase64 output with a newline every
// n encoded characters. n <= 0 disables wrapping (the default).
func WithLineWidth(n int) WriteOption {
	return func(c *writeConfig) { c.lineWidth = n }
}

// WithoutBinascComments suppresses the explanatory `; ...` trailing
// comments WriteBinasc otherwise emits on header and track-marker
// lines.
func WithoutBinascComments() WriteOption {
	return func(c *writeConfig) { c.binascComments = false }
}

func wrapLines(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += width {
		end := i + width
		if end > len(s) {
			end = len(s)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}

// WriteHex serializes the file and returns its bytes hex-encoded,
// upper-case, matching the original tool suite's binasc/hex sibling
// format (SPEC_FULL.md Domain Stack).
func (f *MidiFile) WriteHex(opts ...WriteOption) (string, error) {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", err
	}
	return wrapLines(strings.ToUpper(hex.EncodeToString(buf.Bytes())), cfg.lineWidth), nil
}

// WriteBase64 serializes the file and returns its bytes base64-encoded.
func (f *MidiFile) WriteBase64(opts ...WriteOption) (string, error) {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return "", err
	}
	return wrapLines(base64.StdEncoding.EncodeToString(buf.Bytes()), cfg.lineWidth), nil
}
