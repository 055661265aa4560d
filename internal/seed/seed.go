// Package seed derives deterministic per-day random streams. Every install
// hashing the same day key and salt observes the same sequence, which is how
// the app shows "the same challenge for everyone" with no server involved.
package seed

import "hash/fnv"

// namespace keeps grindstone's streams distinct from any other FNV user.
const namespace = "grindstone"

// Seed hashes namespace|dayKey|salt into a 32-bit FNV-1a value. Pure and
// total: identical inputs always produce identical outputs.
func Seed(dayKey, salt string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(dayKey))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(salt))
	return h.Sum32()
}

// Stream is a small non-cryptographic PRNG over 32-bit mixing state,
// reproducible from its seed. Not safe for concurrent use.
type Stream struct {
	state uint32
}

// NewStream returns a stream positioned at the start of the sequence for
// the given day key and salt.
func NewStream(dayKey, salt string) *Stream {
	return &Stream{state: Seed(dayKey, salt)}
}

// Float64 returns the next value in [0, 1).
func (s *Stream) Float64() float64 {
	s.state += 0x6d2b79f5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / (1 << 32)
}

// Intn returns a uniform draw from [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}
