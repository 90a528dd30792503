package midifile

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// WriteBinasc renders the file in the original tool suite's binasc
// grammar: `+c` for a literal ASCII character, `N'V` for an N-byte
// big-endian decimal value, a bare two-digit hex byte, and `vV` for a
// VLV-encoded decimal value, one event per line, `;` introducing a
// comment to end of line (grounded on midi2binasc.cpp). Note On/Off
// data bytes are rendered decimal, matching the original tool;
// everything else is rendered hex.
func (f *MidiFile) WriteBinasc(opts ...WriteOption) (string, error) {
	cfg := defaultWriteConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	tracks := f.snapshotForWrite()
	var b strings.Builder

	format := 0
	if len(tracks) > 1 {
		format = 1
	}

	comment := func(s string, args ...any) string {
		if !cfg.binascComments {
			return ""
		}
		return fmt.Sprintf(s, args...)
	}

	fmt.Fprintf(&b, "+M +T +h +d\t\t\t%s\n", comment("; MIDI file header chunk marker"))
	fmt.Fprintf(&b, "4'6\t\t\t\t%s\n", comment("; bytes in header to follow"))
	fmt.Fprintf(&b, "2'%d\t\t\t\t%s\n", format, comment("; format"))
	fmt.Fprintf(&b, "2'%d\t\t\t\t%s\n", len(tracks), comment("; track count"))
	fmt.Fprintf(&b, "2'%d\t\t\t\t%s\n", f.rawDivision(), comment("; ticks per quarter note"))

	for t, list := range tracks {
		fmt.Fprintf(&b, "\n+M +T +r +k\t\t\t%s\n", comment("; track chunk marker (%d)", t))
		fmt.Fprintf(&b, "4'%d\t\t\t\t%s\n", trackByteCount(list), comment("; bytes in track to follow"))
		for _, e := range list.events {
			if err := writeBinascEvent(&b, e); err != nil {
				return "", err
			}
		}
	}
	return b.String(), nil
}

func trackByteCount(list EventList) int {
	sum := 0
	for _, e := range list.events {
		vlv, _ := encodeVLV(uint32(e.Tick))
		sum += len(vlv) + len(e.Message.Data)
	}
	return sum
}

func writeBinascEvent(b *strings.Builder, e MidiEvent) error {
	fmt.Fprintf(b, "v%d\t", e.Tick)
	data := e.Message.Data
	if len(data) == 0 {
		fmt.Fprintf(b, "\n")
		return nil
	}
	fmt.Fprintf(b, "%02x", data[0])
	cmd := data[0] & 0xF0
	decimal := cmd == CmdNoteOn || cmd == CmdNoteOff
	for _, d := range data[1:] {
		if decimal {
			fmt.Fprintf(b, " '%d", d)
		} else {
			fmt.Fprintf(b, " %02x", d)
		}
	}
	fmt.Fprintf(b, "\n")
	return nil
}

// ReadBinasc parses the binasc grammar WriteBinasc produces back into
// raw bytes and runs them through Read. Unlike the original tool
// pair's separate toascii/tobinary programs, this package exposes the
// decode step directly as a Read variant.
func ReadBinasc(s string, opts ...ReadOption) (*MidiFile, error) {
	raw, err := decodeBinasc(s)
	if err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(raw), opts...)
}

func decodeBinasc(s string) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	n := len(s)
	for i < n {
		c := s[i]
		switch {
		case c == ';':
			for i < n && s[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			// "..." : literal ASCII bytes up to the closing quote.
			i++
			start := i
			for i < n && s[i] != '"' {
				i++
			}
			if i >= n {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: unterminated string at offset %d", start-1)
			}
			out.WriteString(s[start:i])
			i++
		case c == '+':
			i++
			if i >= n {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: dangling '+'")
			}
			out.WriteByte(s[i])
			i++
		case c == '\'':
			i++
			start := i
			for i < n && isDigit(s[i]) {
				i++
			}
			v, err := strconv.Atoi(s[start:i])
			if err != nil {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: bad decimal literal at offset %d", start)
			}
			out.WriteByte(byte(v))
		case c == 'v':
			i++
			start := i
			for i < n && isDigit(s[i]) {
				i++
			}
			v, err := strconv.Atoi(s[start:i])
			if err != nil {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: bad vlv literal at offset %d", start)
			}
			vlv, err := encodeVLV(uint32(v))
			if err != nil {
				return nil, err
			}
			out.Write(vlv)
		case isDigit(c) && i+1 < n && s[i+1] == '\'':
			// N'V : an N-byte big-endian decimal literal. N is always
			// a single digit (1-4) in this grammar.
			width := int(c - '0')
			i += 2
			vstart := i
			for i < n && (isDigit(s[i]) || s[i] == '-') {
				i++
			}
			v, err := strconv.Atoi(s[vstart:i])
			if err != nil {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: bad %d'-literal at offset %d", width, vstart)
			}
			writeBigEndian(&out, v, width)
		case isHexDigit(c):
			// two bare hex digits = one byte.
			start := i
			i += 2
			if i > n {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: truncated hex byte at offset %d", start)
			}
			b, err := strconv.ParseUint(s[start:i], 16, 8)
			if err != nil {
				return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: bad hex byte at offset %d", start)
			}
			out.WriteByte(byte(b))
		default:
			return nil, newErr(ErrMalformedHeader, -1, -1, "binasc: unexpected character %q at offset %d", c, i)
		}
	}
	return out.Bytes(), nil
}

func writeBigEndian(out *bytes.Buffer, v int, width int) {
	for k := width - 1; k >= 0; k-- {
		out.WriteByte(byte(v >> (8 * k)))
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
