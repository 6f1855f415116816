// Package source implements bit sources for the distribution package.
//
// None of the sources are safe for concurrent use; each is meant to be
// owned by a single goroutine.
package source

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/GrahamDennis/distributions/common/errors"
	"github.com/GrahamDennis/distributions/common/logging"
	"github.com/GrahamDennis/distributions/distribution"
)

// ModuleName is the module name used for errors and logging.
const ModuleName = "distribution/source"

// ErrInvalidSeed is the error returned when a seed has the wrong size.
var ErrInvalidSeed = errors.New(ModuleName, 1, "source: invalid seed size")

var logger = logging.GetLogger(ModuleName)

var _ distribution.BitSource = (*rand.Rand)(nil)

// NewMath returns a math/rand/v2 generator backed by a PCG seeded with
// seed.
func NewMath(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// SeedFromLabel derives a reproducible 64-bit seed from a human readable
// label, so that runs can be named rather than numbered.
func SeedFromLabel(label string) uint64 {
	return xxhash.Sum64String(label)
}
