package distribution

import (
	"fmt"

	"github.com/GrahamDennis/distributions/common/cbor"
	"github.com/GrahamDennis/distributions/common/errors"
)

var (
	_ Distribution[int8]      = (*UniformRange[int8])(nil)
	_ IntoDistribution[int8]  = (*UniformRange[int8])(nil)
	_ IntoDistribution[int32] = Range[int32]{}
	_ cbor.Marshaler          = (*UniformRange[uint64])(nil)
	_ cbor.Unmarshaler        = (*UniformRange[uint64])(nil)
)

// UniformRange is the distribution that is uniform over the half-open
// integer range [low, high).
//
// All arithmetic is done on the bit patterns of T in its unsigned
// counterpart of the same width, modulo 2^bits. A draw v of that
// unsigned type is accepted iff v < AcceptanceBound, in which case the
// sample is low + v mod RangeWidth. AcceptanceBound is a multiple of
// RangeWidth, so every residue is produced by the same number of
// accepted draws and the result has no modulo bias.
type UniformRange[T Integer] struct {
	low             T
	rangeWidth      uint64
	acceptanceBound uint64
	mask            uint64
}

// NewUniformRange creates a uniform distribution over [low, high).
//
// It fails with ErrInvalidRange unless low < high.
func NewUniformRange[T Integer](low, high T) (*UniformRange[T], error) {
	if !(low < high) {
		err := errors.WithContext(ErrInvalidRange, fmt.Sprintf("%s: low=%d high=%d", KindOf[T](), low, high))
		logger.Debug("rejected uniform range",
			"err", err,
			"kind", KindOf[T](),
		)
		return nil, err
	}

	mask := maskOf[T]()

	// Conversions to uint64 sign extend, masking restores the bit pattern
	// of the unsigned counterpart.
	rangeWidth := (uint64(high) - uint64(low)) & mask
	acceptanceBound := mask - mask%rangeWidth

	return &UniformRange[T]{
		low:             low,
		rangeWidth:      rangeWidth,
		acceptanceBound: acceptanceBound,
		mask:            mask,
	}, nil
}

// Sample returns a value uniformly distributed in [low, high).
//
// Draws at or above the acceptance bound are rejected and redrawn. At
// least half of all draws are accepted, so the number of draws is
// geometrically distributed with a mean below two; the loop is
// deliberately not capped.
func (r *UniformRange[T]) Sample(src BitSource) T {
	for {
		v := drawWord(src, r.mask)
		if v < r.acceptanceBound {
			// Wrapping add, the conversion truncates to T's width.
			return T(uint64(r.low) + v%r.rangeWidth)
		}
	}
}

// IntoDistribution returns r.
func (r *UniformRange[T]) IntoDistribution() (Distribution[T], error) {
	return r, nil
}

// Low returns the inclusive lower bound.
func (r *UniformRange[T]) Low() T {
	return r.low
}

// High returns the exclusive upper bound.
func (r *UniformRange[T]) High() T {
	return T(uint64(r.low) + r.rangeWidth)
}

// RangeWidth returns high - low in the unsigned counterpart of T.
func (r *UniformRange[T]) RangeWidth() uint64 {
	return r.rangeWidth
}

// AcceptanceBound returns the largest multiple of RangeWidth that fits
// in the unsigned counterpart of T. Draws at or above it are rejected.
func (r *UniformRange[T]) AcceptanceBound() uint64 {
	return r.acceptanceBound
}

// Equal returns true iff both distributions have identical parameters.
func (r *UniformRange[T]) Equal(other *UniformRange[T]) bool {
	if r == nil || other == nil {
		return r == other
	}
	return *r == *other
}

// String returns a human readable representation of the range.
func (r *UniformRange[T]) String() string {
	return fmt.Sprintf("UniformRange[%s]{%d..%d}", KindOf[T](), r.low, r.High())
}

// MarshalCBOR serializes the range endpoints.
func (r *UniformRange[T]) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(Range[T]{Low: r.low, High: r.High()}), nil
}

// UnmarshalCBOR deserializes range endpoints, validating them exactly like
// NewUniformRange does.
func (r *UniformRange[T]) UnmarshalCBOR(data []byte) error {
	var rng Range[T]
	if err := cbor.Unmarshal(data, &rng); err != nil {
		return err
	}

	d, err := NewUniformRange(rng.Low, rng.High)
	if err != nil {
		return err
	}
	*r = *d

	return nil
}

// Range is the half-open integer range [Low, High). It converts into a
// UniformRange.
type Range[T Integer] struct {
	Low  T `cbor:"low" yaml:"low"`
	High T `cbor:"high" yaml:"high"`
}

// NewRange returns the range [low, high).
func NewRange[T Integer](low, high T) Range[T] {
	return Range[T]{Low: low, High: high}
}

// IntoDistribution returns the UniformRange over the range.
func (rng Range[T]) IntoDistribution() (Distribution[T], error) {
	d, err := NewUniformRange(rng.Low, rng.High)
	if err != nil {
		return nil, err
	}
	return d, nil
}
