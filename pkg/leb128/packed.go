package leb128

import (
	"bytes"
	"math/big"
)

// EncodePacked encodes x and returns the resulting byte stream read as a
// big-endian integer: the first byte emitted is the most significant byte
// of the result. For example 300 encodes to 0xAC 0x02, packed as 0xAC02.
func EncodePacked(x uint64) *big.Int {
	var buf bytes.Buffer
	EncodeUnsigned(&buf, x)
	return new(big.Int).SetBytes(buf.Bytes())
}

// DecodePacked is the inverse of EncodePacked. The minimal big-endian byte
// representation of v is decoded as a ULEB128 stream, zero standing for the
// one byte stream 0x00. The stream must be consumed exactly: bytes left over
// after the terminating group make v malformed.
func DecodePacked(v *big.Int) (uint64, error) {
	if v.Sign() < 0 {
		return 0, ErrMalformed
	}
	b := v.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	n, length, err := DecodeUnsigned(bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	if int(length) != len(b) {
		return 0, ErrMalformed
	}
	return n, nil
}
