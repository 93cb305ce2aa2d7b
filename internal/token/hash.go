package token

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"github.com/cespare/xxhash"
)

// Hash32 builds a deterministic 32-bit hash.
func Hash32(s string) uint32 {
	var buf [8]byte
	h := xxhash.Sum64String(s)

	binary.LittleEndian.PutUint64(buf[:], h)
	lo := binary.LittleEndian.Uint32(buf[:4])
	hi := binary.LittleEndian.Uint32(buf[4:])

	return lo ^ hi
}

// Fingerprint accumulates a content key over named inputs.
type Fingerprint struct {
	h hash.Hash64
}

// NewFingerprint returns an empty fingerprint.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{h: xxhash.New()}
}

// Add mixes a named input and its content into the fingerprint.
func (f *Fingerprint) Add(name string, data []byte) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(data)))

	_, _ = f.h.Write([]byte(name))
	_, _ = f.h.Write(n[:])
	_, _ = f.h.Write(data)
}

// AddString mixes a plain string into the fingerprint.
func (f *Fingerprint) AddString(s string) {
	_, _ = f.h.Write([]byte(s))
	_, _ = f.h.Write([]byte{0})
}

// Sum returns the fingerprint as hex.
func (f *Fingerprint) Sum() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], f.h.Sum64())

	return hex.EncodeToString(buf[:])
}
