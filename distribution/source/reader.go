package source

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/GrahamDennis/distributions/distribution"
)

var _ distribution.BitSource = (*Reader)(nil)

// Reader is a bit source drawing little-endian words from a byte stream.
type Reader struct {
	r   io.Reader
	buf [8]byte
}

// NewReader returns a bit source reading from r.
//
// A failing read panics: the BitSource contract has no way to report
// errors, and substituting other bits would be silently wrong.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// NewSystem returns a bit source reading from the operating system's
// entropy source.
func NewSystem() *Reader {
	return NewReader(rand.Reader)
}

func (s *Reader) fill(n int) []byte {
	b := s.buf[:n]
	if _, err := io.ReadFull(s.r, b); err != nil {
		logger.Error("failed to read from entropy source",
			"err", err,
		)
		panic(fmt.Errorf("source: failed to read from entropy source: %w", err))
	}
	return b
}

// Uint32 reads 4 bytes.
func (s *Reader) Uint32() uint32 {
	return binary.LittleEndian.Uint32(s.fill(4))
}

// Uint64 reads 8 bytes.
func (s *Reader) Uint64() uint64 {
	return binary.LittleEndian.Uint64(s.fill(8))
}
