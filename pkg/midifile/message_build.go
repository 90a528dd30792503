package midifile

import "math"

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return newErr(ErrInvalidParameter, -1, -1, "%s=%d out of range [%d,%d]", name, v, lo, hi)
	}
	return nil
}

func checkChannel(ch int) error { return checkRange("channel", ch, 0, 15) }

// NewNoteOn builds a Note On message. A velocity of 0 is accepted
// (callers building a zero-velocity note-off intentionally use this
// constructor) but is discouraged in favor of NewNoteOff.
func NewNoteOn(channel, key, velocity int) (MidiMessage, error) {
	if err := checkChannel(channel); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("key", key, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("velocity", velocity, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	return NewMessage([]byte{CmdNoteOn | byte(channel), byte(key), byte(velocity)}), nil
}

// NewNoteOff builds a Note Off message using the 0x80 status (not the
// zero-velocity Note On idiom).
func NewNoteOff(channel, key, velocity int) (MidiMessage, error) {
	if err := checkChannel(channel); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("key", key, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("velocity", velocity, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	return NewMessage([]byte{CmdNoteOff | byte(channel), byte(key), byte(velocity)}), nil
}

// NewController builds a Control Change message.
func NewController(channel, number, value int) (MidiMessage, error) {
	if err := checkChannel(channel); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("controller", number, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("value", value, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	return NewMessage([]byte{CmdController | byte(channel), byte(number), byte(value)}), nil
}

// NewPatchChange builds a Program Change message.
func NewPatchChange(channel, program int) (MidiMessage, error) {
	if err := checkChannel(channel); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("program", program, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	return NewMessage([]byte{CmdPatchChange | byte(channel), byte(program)}), nil
}

// pitchBend14 converts a -1.0..+1.0 amount to a clamped 14-bit value,
// 0 mapping to the centre (8192 / 0x2000), per §8 property 7.
func pitchBend14(amount float64) int {
	v := int(math.Round((amount + 1.0) * 8192.0))
	if v < 0 {
		v = 0
	}
	if v > 16383 {
		v = 16383
	}
	return v
}

// NewPitchBend builds a Pitch Bend message from a normalized amount in
// [-1.0, 1.0]; out-of-range amounts are clamped rather than rejected,
// matching the original library's behavior for this constructor.
func NewPitchBend(channel int, amount float64) (MidiMessage, error) {
	if err := checkChannel(channel); err != nil {
		return MidiMessage{}, err
	}
	v := pitchBend14(amount)
	return NewMessage([]byte{CmdPitchBend | byte(channel), byte(v & 0x7F), byte((v >> 7) & 0x7F)}), nil
}

// NewPitchBendCents builds a Pitch Bend message from a deviation in
// cents, given the bend wheel's total semitone range (the amount a
// full excursion of the wheel represents). A semitoneRange of 2 means
// the wheel spans +/-200 cents.
func NewPitchBendCents(channel int, cents float64, semitoneRange float64) (MidiMessage, error) {
	if semitoneRange <= 0 {
		return MidiMessage{}, newErr(ErrInvalidParameter, -1, -1, "semitoneRange must be positive")
	}
	amount := cents / (semitoneRange * 100.0)
	return NewPitchBend(channel, amount)
}

func encodeMeta(metaType byte, payload []byte) MidiMessage {
	lenBytes, _ := encodeVLV(uint32(len(payload)))
	data := make([]byte, 0, 2+len(lenBytes)+len(payload))
	data = append(data, StatusMeta, metaType)
	data = append(data, lenBytes...)
	data = append(data, payload...)
	return NewMessage(data)
}

// NewTempo builds a Tempo meta event from a tempo in beats per minute.
func NewTempo(bpm float64) (MidiMessage, error) {
	if bpm <= 0 {
		return MidiMessage{}, newErr(ErrInvalidParameter, -1, -1, "bpm=%g must be positive", bpm)
	}
	us := int(math.Round(60000000.0 / bpm))
	if err := checkRange("microsecondsPerQuarter", us, 0, 0xFFFFFF); err != nil {
		return MidiMessage{}, err
	}
	payload := []byte{byte(us >> 16), byte(us >> 8), byte(us)}
	return encodeMeta(MetaTempo, payload), nil
}

// NewTimeSignature builds a Time Signature meta event. denominator is
// the actual value (e.g. 4), not its log2 exponent; clocksPerClick is
// typically 24, thirtySecondsPerQuarter typically 8.
func NewTimeSignature(numerator, denominator, clocksPerClick, thirtySecondsPerQuarter int) (MidiMessage, error) {
	if numerator <= 0 || numerator > 255 {
		return MidiMessage{}, newErr(ErrInvalidParameter, -1, -1, "numerator=%d out of range", numerator)
	}
	if denominator <= 0 {
		return MidiMessage{}, newErr(ErrInvalidParameter, -1, -1, "denominator=%d must be a power of two", denominator)
	}
	denomLog := 0
	d := denominator
	for d > 1 {
		if d%2 != 0 {
			return MidiMessage{}, newErr(ErrInvalidParameter, -1, -1, "denominator=%d must be a power of two", denominator)
		}
		d /= 2
		denomLog++
	}
	if err := checkRange("clocksPerClick", clocksPerClick, 0, 255); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("thirtySecondsPerQuarter", thirtySecondsPerQuarter, 0, 255); err != nil {
		return MidiMessage{}, err
	}
	payload := []byte{byte(numerator), byte(denomLog), byte(clocksPerClick), byte(thirtySecondsPerQuarter)}
	return encodeMeta(MetaTimeSignature, payload), nil
}

// NewKeySignature builds a Key Signature meta event. sharpsFlats is
// negative for flats, positive for sharps (-7..7); mode is 0 for
// major, 1 for minor.
func NewKeySignature(sharpsFlats, mode int) (MidiMessage, error) {
	if err := checkRange("sharpsFlats", sharpsFlats, -7, 7); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("mode", mode, 0, 1); err != nil {
		return MidiMessage{}, err
	}
	payload := []byte{byte(int8(sharpsFlats)), byte(mode)}
	return encodeMeta(MetaKeySignature, payload), nil
}

// NewText builds a generic Text (0x01) meta event.
func NewText(text string) (MidiMessage, error) { return encodeMeta(MetaText, []byte(text)), nil }

// NewLyric builds a Lyric (0x05) meta event.
func NewLyric(text string) (MidiMessage, error) { return encodeMeta(MetaLyric, []byte(text)), nil }

// NewTrackName builds a TrackName (0x03) meta event.
func NewTrackName(name string) (MidiMessage, error) { return encodeMeta(MetaTrackName, []byte(name)), nil }

// NewMarker builds a Marker (0x06) meta event.
func NewMarker(text string) (MidiMessage, error) { return encodeMeta(MetaMarker, []byte(text)), nil }

// NewCopyright builds a Copyright (0x02) meta event.
func NewCopyright(text string) (MidiMessage, error) { return encodeMeta(MetaCopyright, []byte(text)), nil }

// NewInstrumentName builds an InstrumentName (0x04) meta event.
func NewInstrumentName(name string) (MidiMessage, error) {
	return encodeMeta(MetaInstrumentName, []byte(name)), nil
}

// NewCue builds a Cue (0x07) meta event.
func NewCue(text string) (MidiMessage, error) { return encodeMeta(MetaCue, []byte(text)), nil }

// NewEndOfTrack builds the canonical `FF 2F 00` end-of-track meta event.
func NewEndOfTrack() MidiMessage { return encodeMeta(MetaEndOfTrack, nil) }

// NewSysEx builds a SysEx message (status 0xF0) from a payload that
// does not itself include the VLV length prefix. A trailing 0xF7
// terminator is appended unless the payload already ends with one; the
// length prefix is then added here and counts the terminator.
func NewSysEx(payload []byte) (MidiMessage, error) {
	if len(payload) == 0 || payload[len(payload)-1] != 0xF7 {
		payload = append(append([]byte(nil), payload...), 0xF7)
	}
	lenBytes, err := encodeVLV(uint32(len(payload)))
	if err != nil {
		return MidiMessage{}, err
	}
	data := make([]byte, 0, 1+len(lenBytes)+len(payload))
	data = append(data, StatusSysEx)
	data = append(data, lenBytes...)
	data = append(data, payload...)
	return NewMessage(data), nil
}
