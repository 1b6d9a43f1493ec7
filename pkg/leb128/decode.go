package leb128

import (
	"errors"
	"io"
)

var (
	// ErrMalformed is returned when the input ends while the continuation
	// bit of the last byte read is still set, or when the input is empty.
	ErrMalformed = errors.New("malformed ULEB128 value")
	// ErrOverflow is returned when the decoded value does not fit in 64 bits.
	ErrOverflow = errors.New("ULEB128 value overflows 64 bits")
)

// Reader is a io.ByteReader with a Len method. This interface is
// satisfied by both bytes.Buffer and bytes.Reader.
type Reader interface {
	io.ByteReader
	io.Reader
	Len() int
}

// DecodeUnsigned decodes an unsigned Little Endian Base 128
// represented number. It returns the value and the number of bytes consumed.
func DecodeUnsigned(buf Reader) (uint64, uint32, error) {
	var (
		result uint64
		shift  uint64
		length uint32
	)

	if buf.Len() == 0 {
		return 0, 0, ErrMalformed
	}

	for {
		b, err := buf.ReadByte()
		if err != nil {
			return 0, length, ErrMalformed
		}
		length++

		group := uint64(b & 0x7f)
		switch {
		case shift >= 64:
			if group != 0 {
				return 0, length, ErrOverflow
			}
		case group>>(64-shift) != 0:
			return 0, length, ErrOverflow
		default:
			result |= group << shift
		}

		// High order bit clear: this was the last byte.
		if b&0x80 == 0 {
			break
		}

		shift += 7
	}

	return result, length, nil
}
