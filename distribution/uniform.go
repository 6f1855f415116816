package distribution

import "math"

var (
	_ Distribution[uint8]      = Uniform[uint8]{}
	_ IntoDistribution[int64]  = Uniform[int64]{}
	_ Distribution[bool]       = UniformBool{}
	_ IntoDistribution[uint16] = Full[uint16]{}
)

// Uniform is the distribution that is uniform over every value
// representable by T.
type Uniform[T Integer] struct{}

// Sample returns a uniformly distributed T.
//
// Types up to 32 bits wide are truncated from a single 32-bit draw, wider
// types use a single 64-bit draw.
func (Uniform[T]) Sample(src BitSource) T {
	return T(drawWord(src, maskOf[T]()))
}

// IntoDistribution returns u.
func (u Uniform[T]) IntoDistribution() (Distribution[T], error) {
	return u, nil
}

// UniformBool is the distribution yielding true and false with equal
// probability.
type UniformBool struct{}

// Sample returns the lowest bit of a single 32-bit draw.
func (UniformBool) Sample(src BitSource) bool {
	return uint8(src.Uint32())&1 == 1
}

// IntoDistribution returns u.
func (u UniformBool) IntoDistribution() (Distribution[bool], error) {
	return u, nil
}

// Full describes the full range of T, i.e. every value of the type, and
// converts into the Uniform distribution.
type Full[T Integer] struct{}

// IntoDistribution returns Uniform[T].
func (Full[T]) IntoDistribution() (Distribution[T], error) {
	return Uniform[T]{}, nil
}

// Default returns the default distribution for T, which for integers is
// uniform over all values.
func Default[T Integer]() Distribution[T] {
	return Uniform[T]{}
}

// DefaultBool returns the default distribution for bool.
func DefaultBool() Distribution[bool] {
	return UniformBool{}
}

// Random samples a T from its default distribution.
func Random[T Integer](src BitSource) T {
	return Default[T]().Sample(src)
}

// drawWord returns a uniformly distributed value of the unsigned type
// whose all-ones pattern is mask.
func drawWord(src BitSource, mask uint64) uint64 {
	if mask <= math.MaxUint32 {
		return uint64(src.Uint32()) & mask
	}
	return src.Uint64()
}
