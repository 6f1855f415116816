package source

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/GrahamDennis/distributions/common/errors"
	"github.com/GrahamDennis/distributions/distribution"
)

// SeedSize is the size of a ChaCha seed in bytes.
const SeedSize = chacha20.KeySize

var _ distribution.BitSource = (*ChaCha)(nil)

// ChaCha is a deterministic bit source producing the ChaCha20 keystream
// for a seed, under an all-zero nonce.
//
// The keystream is limited to 256 GiB per seed, after which the
// underlying cipher panics.
type ChaCha struct {
	cipher *chacha20.Cipher
	buf    [64]byte
	off    int
}

// NewChaCha returns a ChaCha bit source keyed by seed, which must be
// SeedSize bytes long.
func NewChaCha(seed []byte) (*ChaCha, error) {
	if len(seed) != SeedSize {
		return nil, errors.WithContext(ErrInvalidSeed, fmt.Sprintf("got %d bytes, want %d", len(seed), SeedSize))
	}

	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(seed, nonce[:])
	if err != nil {
		return nil, fmt.Errorf("source: failed to initialize chacha20: %w", err)
	}

	s := &ChaCha{cipher: cipher}
	s.off = len(s.buf)
	return s, nil
}

// NewChaChaFromSeed returns a ChaCha bit source whose key is the
// little-endian encoding of seed, zero padded.
func NewChaChaFromSeed(seed uint64) *ChaCha {
	var key [SeedSize]byte
	binary.LittleEndian.PutUint64(key[:], seed)

	s, err := NewChaCha(key[:])
	if err != nil {
		panic(err)
	}
	return s
}

func (s *ChaCha) next(n int) []byte {
	if s.off+n > len(s.buf) {
		for i := range s.buf {
			s.buf[i] = 0
		}
		s.cipher.XORKeyStream(s.buf[:], s.buf[:])
		s.off = 0
	}
	b := s.buf[s.off : s.off+n]
	s.off += n
	return b
}

// Uint32 consumes 4 bytes of keystream.
func (s *ChaCha) Uint32() uint32 {
	return binary.LittleEndian.Uint32(s.next(4))
}

// Uint64 consumes 8 bytes of keystream.
func (s *ChaCha) Uint64() uint64 {
	return binary.LittleEndian.Uint64(s.next(8))
}
