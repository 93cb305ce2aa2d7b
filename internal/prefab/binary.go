package prefab

import (
	"encoding/binary"
	"math"
)

// reader reads little-endian values at absolute offsets.
// The first out-of-range read is remembered and later reads return zero.
type reader struct {
	b   []byte
	err error
}

// readU32 reads a 32-bit integer from a byte slice.
func readU32(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}

	return binary.LittleEndian.Uint32(b)
}

// at returns the four bytes at off, or nil after recording ErrTruncated.
func (r *reader) at(off int) []byte {
	if r.err != nil {
		return nil
	}
	if off < 0 || off+4 > len(r.b) {
		r.err = truncatedAt(off, len(r.b))
		return nil
	}

	return r.b[off : off+4]
}

func (r *reader) i32(off int) int {
	return int(int32(readU32(r.at(off))))
}

func (r *reader) f32(off int) float64 {
	return float64(math.Float32frombits(readU32(r.at(off))))
}
