// Package distribution implements random value distributions.
//
// A Distribution turns draws from a BitSource into values of some type.
// Distributions are immutable once constructed and may be sampled any
// number of times; all randomness, and therefore all determinism, comes
// from the BitSource passed to Sample.
//
// The centerpiece is UniformRange, an unbiased sampler over a half-open
// integer range [low, high) for every Go integer type, using rejection
// sampling so that no value of the range is favored.
package distribution

import (
	"github.com/GrahamDennis/distributions/common/logging"
)

// ModuleName is the module name used for errors and logging.
const ModuleName = "distribution"

var logger = logging.GetLogger(ModuleName)

// BitSource is a source of uniformly distributed, independent words.
//
// Both *math/rand.Rand and *math/rand/v2.Rand satisfy this interface. A
// BitSource is used by a single goroutine at a time; the distributions
// in this package do no locking of their own.
type BitSource interface {
	// Uint32 returns a uniformly distributed 32-bit word.
	Uint32() uint32
	// Uint64 returns a uniformly distributed 64-bit word.
	Uint64() uint64
}

// Distribution produces random values of type T.
//
// Since a Distribution keeps no state between calls, each sample is
// independent of all others as long as the BitSource's draws are.
type Distribution[T any] interface {
	// Sample generates a value using src as the source of randomness.
	Sample(src BitSource) T
}

// IntoDistribution is implemented by values that describe a Distribution
// over T without being one, such as a Range.
//
// IntoDistribution is a pure conversion: equal values yield
// distributions with equal parameters. Values that may describe an
// invalid distribution report that as an error instead of panicking.
type IntoDistribution[T any] interface {
	IntoDistribution() (Distribution[T], error)
}

// SampleFrom converts v into a Distribution and draws a single sample
// from it.
func SampleFrom[T any](v IntoDistribution[T], src BitSource) (T, error) {
	d, err := v.IntoDistribution()
	if err != nil {
		var zero T
		return zero, err
	}
	return d.Sample(src), nil
}

// DistributionFunc adapts an ordinary function into a Distribution, for
// types that know how to generate random instances of themselves.
type DistributionFunc[T any] func(src BitSource) T

// Sample calls f(src).
func (f DistributionFunc[T]) Sample(src BitSource) T {
	return f(src)
}

// IntoDistribution returns f.
func (f DistributionFunc[T]) IntoDistribution() (Distribution[T], error) {
	return f, nil
}
