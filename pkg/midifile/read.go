package midifile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/craigsapp/midifile/pkg/fileutil"
)

// ReadOption configures a Read call (functional options, replacing the
// original library's global mutable Options singleton per Design
// Notes).
type ReadOption func(*readConfig)

type readConfig struct {
	strict bool
}

// WithStrict makes Read treat every soft condition (§4.8) as a hard
// error instead of accumulating a Warning and continuing. The only
// soft condition Read detects is a track with no end-of-track meta
// event.
func WithStrict() ReadOption {
	return func(c *readConfig) { c.strict = true }
}

// Read parses a Standard MIDI File from r into a fresh MidiFile.
// Tracks are returned in absolute-tick, split state, in the event
// order they appear on disk; callers wanting delta ticks should call
// ToDeltaTicks. Non-fatal malformed-but-recoverable conditions are
// recorded as Warnings rather than aborting, unless WithStrict is
// given (§4.8).
func Read(r io.Reader, opts ...ReadOption) (*MidiFile, error) {
	cfg := readConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	br := bufio.NewReader(r)
	f := New()
	f.tracks = nil
	f.warnings = nil

	if err := readMagic(br, "MThd"); err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}
	headerLen, err := readU32BE(br)
	if err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}
	if headerLen < 6 {
		f.lastReadWriteOK = false
		return nil, newErr(ErrMalformedHeader, -1, -1, "MThd length %d is less than 6", headerLen)
	}
	format, err := readI16BE(br)
	if err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}
	numTracks, err := readI16BE(br)
	if err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}
	division, err := readI16BE(br)
	if err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}
	_ = format
	if err := skipBytes(br, int(headerLen)-6); err != nil {
		f.lastReadWriteOK = false
		return nil, err
	}

	f.setRawDivision(division)
	f.timeState = TicksAbsolute
	f.trackState = TracksSplit

	f.tracks = make([]EventList, 0, numTracks)
	for t := 0; t < int(numTracks); t++ {
		list, err := readTrack(br, t, &cfg, &f.warnings)
		if err != nil {
			f.lastReadWriteOK = false
			return nil, wrapErr(ErrIoFailed, t, -1, err, "reading track %d", t)
		}
		f.tracks = append(f.tracks, list)
	}

	f.lastReadWriteOK = true
	return f, nil
}

func skipBytes(r *bufio.Reader, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r, int64(n))
	if err != nil {
		return wrapErr(ErrTruncatedStream, -1, -1, err, "skipping %d header bytes", n)
	}
	return nil
}

func readTrack(br *bufio.Reader, track int, cfg *readConfig, warnings *[]Warning) (EventList, error) {
	if err := readMagic(br, "MTrk"); err != nil {
		return EventList{}, err
	}
	length, err := readU32BE(br)
	if err != nil {
		return EventList{}, err
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		return EventList{}, wrapErr(ErrTruncatedStream, track, -1, err, "reading track body")
	}
	r := bytes.NewReader(body)

	var list EventList
	var runningStatus byte
	var haveRunningStatus bool
	var tick int64

	for r.Len() > 0 {
		delta, err := readVLV(r)
		if err != nil {
			return list, wrapErr(ErrTruncatedStream, track, int64(len(body)-r.Len()), err, "reading delta time")
		}
		tick += int64(delta)

		if r.Len() == 0 {
			return list, newErr(ErrTruncatedStream, track, int64(len(body)-r.Len()), "track ends mid-event")
		}
		peek, _ := r.ReadByte()

		var status byte
		var firstDataByte byte
		var haveFirstDataByte bool

		switch {
		case peek == StatusMeta, peek == StatusSysEx, peek == StatusSysExCnt:
			status = peek
			haveRunningStatus = false
		case peek&0x80 != 0:
			status = peek
			runningStatus = peek
			haveRunningStatus = true
		default:
			if !haveRunningStatus {
				return list, newErr(ErrRunningStatusWithoutPrior, track, int64(len(body)-r.Len()), "data byte 0x%02X without a prior status", peek)
			}
			status = runningStatus
			firstDataByte = peek
			haveFirstDataByte = true
		}

		msg, err := readMessageBody(r, status, firstDataByte, haveFirstDataByte)
		if err != nil {
			return list, wrapErr(ErrIoFailed, track, int64(len(body)-r.Len()), err, "reading event body")
		}

		list.Append(NewEvent(track, tick, msg))

		if msg.IsMeta() {
			if t, _ := msg.GetMetaType(); t == MetaEndOfTrack {
				return list, nil
			}
		}
	}

	if !cfg.strict {
		*warnings = append(*warnings, fmtWarning(track, "track %d has no end-of-track meta event", track))
		return list, nil
	}
	return list, newErr(ErrMalformedHeader, track, int64(len(body)), "track %d has no end-of-track meta event", track)
}

// readMessageBody reads the remainder of one event's bytes given its
// status byte (already consumed from r, or supplied via running
// status alongside a first data byte already consumed from r).
func readMessageBody(r *bytes.Reader, status byte, firstDataByte byte, haveFirstDataByte bool) (MidiMessage, error) {
	switch status {
	case StatusMeta:
		typ, err := r.ReadByte()
		if err != nil {
			return MidiMessage{}, wrapErr(ErrTruncatedStream, -1, -1, err, "reading meta type")
		}
		lenBytes, n, err := peekVLV(r)
		if err != nil {
			return MidiMessage{}, err
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return MidiMessage{}, wrapErr(ErrTruncatedStream, -1, -1, err, "reading meta payload")
		}
		data := append([]byte{StatusMeta, typ}, lenBytes...)
		data = append(data, payload...)
		return MidiMessage{Data: data}, nil

	case StatusSysEx, StatusSysExCnt:
		lenBytes, n, err := peekVLV(r)
		if err != nil {
			return MidiMessage{}, err
		}
		payload := make([]byte, n)
		if _, err := io.ReadFull(r, payload); err != nil {
			return MidiMessage{}, wrapErr(ErrTruncatedStream, -1, -1, err, "reading sysex payload")
		}
		data := append([]byte{status}, lenBytes...)
		data = append(data, payload...)
		return MidiMessage{Data: data}, nil

	default:
		cmd := status & 0xF0
		nData := channelMessageDataLen(cmd)
		data := make([]byte, 0, 1+nData)
		data = append(data, status)
		if haveFirstDataByte {
			data = append(data, firstDataByte)
			nData--
		}
		for i := 0; i < nData; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return MidiMessage{}, wrapErr(ErrTruncatedStream, -1, -1, err, "reading channel message data")
			}
			data = append(data, b)
		}
		return MidiMessage{Data: data}, nil
	}
}

func channelMessageDataLen(cmd byte) int {
	switch cmd {
	case CmdPatchChange, CmdChannelPressure:
		return 1
	default:
		return 2
	}
}

// peekVLV reads a VLV from r and returns both its raw encoded bytes
// (for inline storage per Design Note i) and the decoded length.
func peekVLV(r *bytes.Reader) ([]byte, int, error) {
	var raw []byte
	var value uint32
	for i := 0; i < 4; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, 0, wrapErr(ErrTruncatedStream, -1, -1, err, "reading VLV")
		}
		raw = append(raw, b)
		value = (value << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return raw, int(value), nil
		}
	}
	return nil, 0, newErr(ErrInvalidVlv, -1, -1, "VLV longer than 4 bytes")
}

// ReadFile is a convenience wrapper reading from a path.
// ReadFile opens path and delegates to Read. If path does not exist
// exactly as given, it falls back to a case-insensitive match in the
// same directory, since SMF files circulate with inconsistent ".mid"
// casing.
func ReadFile(path string, opts ...ReadOption) (*MidiFile, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		if resolved, ferr := fileutil.FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path)); ferr == nil {
			file, err = os.Open(resolved)
		}
	}
	if err != nil {
		return nil, wrapErr(ErrIoFailed, -1, -1, err, "opening %s", path)
	}
	defer file.Close()
	return Read(file, opts...)
}

func fmtWarning(track int, format string, args ...any) Warning {
	return Warning{Track: track, Message: fmt.Sprintf(format, args...)}
}
