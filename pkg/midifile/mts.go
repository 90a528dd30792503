package midifile

import "math"

// MTS (MIDI Tuning Standard) real-time universal SysEx builders,
// grounded on original_source/tools/mts-type2.cpp and mts-type9.cpp.
// Both use the Universal Real Time SysEx envelope:
//
//	F0 7F <device> 08 <sub-id2> ... F7
//
// sub-id2 0x02 is per-key frequency tuning ("type 2"); sub-id2 0x09 is
// the two-byte (14-bit) octave temperament ("type 9").
const (
	mtsSubID1     = 0x08
	mtsType2SubID = 0x02
	mtsType9SubID = 0x09
)

// KeyTuning is one entry of a type-2 bulk tuning dump: the key being
// retuned, and its new tuning expressed as a semitone (0-127) plus a
// 14-bit fractional cents offset centred at 0x2000 (8192).
type KeyTuning struct {
	Key             int
	Semitone        int
	FractionCents14 int
}

// NewMTS2 builds a type-2 (per-key frequency/semitone tuning) real
// time SysEx message for the given tuning program number (0-127) and
// key tunings.
func NewMTS2(device, program int, tunings []KeyTuning) (MidiMessage, error) {
	if err := checkRange("device", device, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	if err := checkRange("program", program, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	payload := []byte{byte(device), mtsSubID1, mtsType2SubID, byte(program), byte(len(tunings))}
	for _, t := range tunings {
		if err := checkRange("key", t.Key, 0, 127); err != nil {
			return MidiMessage{}, err
		}
		if err := checkRange("semitone", t.Semitone, 0, 127); err != nil {
			return MidiMessage{}, err
		}
		if err := checkRange("fractionCents14", t.FractionCents14, 0, 16383); err != nil {
			return MidiMessage{}, err
		}
		payload = append(payload, byte(t.Key), byte(t.Semitone),
			byte(t.FractionCents14>>7), byte(t.FractionCents14&0x7F))
	}
	return NewSysEx(payload)
}

// NewMTS9 builds a type-9 (real-time two-byte octave temperament)
// SysEx message: a channel bitmap selecting which of the 16 channels
// are retuned, followed by 12 pitch-class offsets in 14-bit cents
// (centred at 0x2000 = no offset, +/- up to ~100 cents).
func NewMTS9(device int, channelBitmap [2]byte, offsetsCents14 [12]int) (MidiMessage, error) {
	if err := checkRange("device", device, 0, 127); err != nil {
		return MidiMessage{}, err
	}
	payload := []byte{byte(device), mtsSubID1, mtsType9SubID, channelBitmap[0] & 0x7F, channelBitmap[1] & 0x7F}
	for _, c := range offsetsCents14 {
		if err := checkRange("offsetCents14", c, 0, 16383); err != nil {
			return MidiMessage{}, err
		}
		payload = append(payload, byte(c>>7), byte(c&0x7F))
	}
	return NewSysEx(payload)
}

// centsToOffset14 centres a +/-100 cent deviation on 0x2000 (8192),
// clamping rather than wrapping, matching NewPitchBend's convention.
func centsToOffset14(cents float64) int {
	v := int(math.Round((cents/100.0 + 1.0) * 8192.0))
	if v < 0 {
		v = 0
	}
	if v > 16383 {
		v = 16383
	}
	return v
}

// TemperamentTable returns the per-pitch-class cents deviation from
// equal temperament for a named historical temperament, grounded on
// original_source/tools/temper.cpp's makeTemperamentEqual/Just/
// Pythagorean/Meantone family. Index 0 is C.
func TemperamentTable(name string) ([12]float64, error) {
	switch name {
	case "equal":
		return [12]float64{}, nil
	case "pythagorean":
		return [12]float64{0, -9.78, 3.91, -5.87, 7.82, -1.96, 5.87, 1.96, -7.82, 5.87, -3.91, 9.78}, nil
	case "meantone":
		return [12]float64{0, -24.51, 3.42, -10.78, 6.84, -17.15, -13.73, -3.42, -20.57, 0.21, -27.37, 10.26}, nil
	case "just":
		return [12]float64{0, 11.73, 3.91, 15.64, -13.69, -1.96, -9.78, 1.96, 13.69, -15.64, 17.60, -11.73}, nil
	default:
		return [12]float64{}, newErr(ErrInvalidParameter, -1, -1, "unknown temperament %q", name)
	}
}

// NewMTS9Temperament builds a NewMTS9 message applying a named
// temperament (TemperamentTable) uniformly to all 16 channels.
func NewMTS9Temperament(device int, name string) (MidiMessage, error) {
	table, err := TemperamentTable(name)
	if err != nil {
		return MidiMessage{}, err
	}
	var offsets [12]int
	for i, cents := range table {
		offsets[i] = centsToOffset14(cents)
	}
	return NewMTS9(device, [2]byte{0x7F, 0x7F}, offsets)
}
