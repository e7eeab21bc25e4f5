package varint

import (
	"errors"
	"math/bits"
)

var ErrOverflow = errors.New("varint: truncated or overflowing varint")

// Len is the number of bytes binary.PutUvarint uses for x
func Len(x int) int {
	// protobuf does this calculation
	bits := 63 ^ bits.LeadingZeros64(uint64(x)|1)
	return (bits*9 + 73) / 64
}

// Read decodes a uvarint at *i and advances *i past it.
// never reads past the end of buf
func Read(buf []byte, i *int) (int, error) {
	shift := 0
	value := 0
	for {
		if *i >= len(buf) || shift > 56 {
			return 0, ErrOverflow
		}
		n := buf[*i]
		*i = *i + 1
		value |= int(n&0x7F) << shift
		if n&0x80 == 0 {
			break
		}
		shift += 7
	}
	if value < 0 {
		return 0, ErrOverflow
	}
	return value, nil
}
