package midifile

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// ReadHex parses a Standard MIDI File encoded as a hex string (spaces
// and newlines are tolerated between byte pairs), the sibling format
// the original tool suite's command-line utilities accept alongside
// raw binary (SPEC_FULL.md Domain Stack).
func ReadHex(s string, opts ...ReadOption) (*MidiFile, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, s)
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return nil, wrapErr(ErrMalformedHeader, -1, -1, err, "decoding hex input")
	}
	return Read(bytes.NewReader(raw), opts...)
}

// ReadBase64 parses a Standard MIDI File encoded as standard base64
// (whitespace and newlines between characters are tolerated, so it
// accepts WriteBase64's WithLineWidth-wrapped output).
func ReadBase64(s string, opts ...ReadOption) (*MidiFile, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, s)
	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, wrapErr(ErrMalformedHeader, -1, -1, err, "decoding base64 input")
	}
	return Read(bytes.NewReader(raw), opts...)
}
