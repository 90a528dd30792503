package midifile

import (
	"encoding/binary"
	"io"
)

// encodeVLV encodes n as a variable-length value: 7 bits per byte,
// big-endian, high bit set on every byte but the last. n must fit in
// 28 bits (the SMF-legal range); larger values fail with InvalidVlv.
func encodeVLV(n uint32) ([]byte, error) {
	if n > 0x0FFFFFFF {
		return nil, newErr(ErrInvalidVlv, -1, -1, "value 0x%X exceeds 28-bit VLV range", n)
	}
	buf := []byte{byte(n & 0x7F)}
	n >>= 7
	for n > 0 {
		buf = append([]byte{byte(n&0x7F) | 0x80}, buf...)
		n >>= 7
	}
	return buf, nil
}

// decodeVLV decodes a variable-length value from the start of data,
// returning the value and the number of bytes consumed. At most 4
// bytes are read; a 4th byte still carrying the continuation bit is
// InvalidVlv.
func decodeVLV(data []byte) (uint32, int, error) {
	var value uint32
	for i := 0; i < 4; i++ {
		if i >= len(data) {
			return 0, 0, newErr(ErrTruncatedStream, -1, -1, "truncated VLV")
		}
		b := data[i]
		value = (value << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, newErr(ErrInvalidVlv, -1, -1, "VLV longer than 4 bytes")
}

// writeVLV writes the VLV encoding of n to w.
func writeVLV(w io.Writer, n uint32) error {
	buf, err := encodeVLV(n)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	if err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing VLV")
	}
	return nil
}

// readVLV reads a VLV from r, one byte at a time (the source stream
// has no way to know the length in advance).
func readVLV(r io.ByteReader) (uint32, error) {
	var value uint32
	for i := 0; i < 4; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, wrapErr(ErrTruncatedStream, -1, -1, err, "reading VLV")
		}
		value = (value << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, newErr(ErrInvalidVlv, -1, -1, "VLV longer than 4 bytes")
}

func readU16BE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapErr(ErrTruncatedStream, -1, -1, err, "reading u16")
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readI16BE(r io.Reader) (int16, error) {
	u, err := readU16BE(r)
	return int16(u), err
}

func readU32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapErr(ErrTruncatedStream, -1, -1, err, "reading u32")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func writeU16BE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing u16")
	}
	return nil
}

func writeI16BE(w io.Writer, v int16) error {
	return writeU16BE(w, uint16(v))
}

func writeU32BE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	if err != nil {
		return wrapErr(ErrIoFailed, -1, -1, err, "writing u32")
	}
	return nil
}

func readMagic(r io.Reader, want string) error {
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		return wrapErr(ErrMalformedHeader, -1, -1, err, "reading %q magic", want)
	}
	if string(buf) != want {
		return newErr(ErrMalformedHeader, -1, -1, "expected %q magic, found %q", want, string(buf))
	}
	return nil
}
