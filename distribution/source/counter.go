package source

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"

	"github.com/GrahamDennis/distributions/distribution"
)

var _ distribution.BitSource = (*Counter)(nil)

// Counter is a counter mode bit source: the n-th word drawn is the
// seeded xxh3 hash of n. Any position of the stream can be reproduced
// without generating the words before it.
type Counter struct {
	seed     uint64
	position uint64
	buf      [8]byte
}

// NewCounter returns a counter mode bit source starting at position 0.
func NewCounter(seed uint64) *Counter {
	return &Counter{seed: seed}
}

// Position returns the number of words drawn so far.
func (s *Counter) Position() uint64 {
	return s.position
}

// Seek sets the position of the next word to draw.
func (s *Counter) Seek(position uint64) {
	s.position = position
}

// Uint64 returns the word at the current position and advances it.
func (s *Counter) Uint64() uint64 {
	binary.LittleEndian.PutUint64(s.buf[:], s.position)
	s.position++
	return xxh3.HashSeed(s.buf[:], s.seed)
}

// Uint32 returns the low half of the word at the current position and
// advances it.
func (s *Counter) Uint32() uint32 {
	return uint32(s.Uint64())
}
