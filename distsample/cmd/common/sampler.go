package common

import (
	"fmt"
	"strconv"

	"github.com/GrahamDennis/distributions/config"
	"github.com/GrahamDennis/distributions/distribution"
	"github.com/GrahamDennis/distributions/distribution/source"
)

// Sampler is a uniform range distribution with the integer kind erased,
// so that commands can handle every kind through a single code path.
//
// Samples are reported as their offset from the lower bound, which is
// always in [0, RangeWidth()).
type Sampler interface {
	// Kind returns the integer kind being sampled.
	Kind() distribution.Kind
	// RangeWidth returns the number of values in the range, modulo 2^bits.
	RangeWidth() uint64
	// AcceptanceBound returns the rejection sampling acceptance bound.
	AcceptanceBound() uint64
	// Draw samples the distribution and returns the sample's offset.
	Draw(src distribution.BitSource) uint64
	// Format returns the decimal representation of the sample at offset.
	Format(offset uint64) string
	// String returns a description of the distribution.
	String() string
}

type typedSampler[T distribution.Integer] struct {
	r    *distribution.UniformRange[T]
	kind distribution.Kind
	mask uint64
	low  uint64
}

func (s *typedSampler[T]) Kind() distribution.Kind {
	return s.kind
}

func (s *typedSampler[T]) RangeWidth() uint64 {
	return s.r.RangeWidth()
}

func (s *typedSampler[T]) AcceptanceBound() uint64 {
	return s.r.AcceptanceBound()
}

func (s *typedSampler[T]) Draw(src distribution.BitSource) uint64 {
	return (uint64(s.r.Sample(src)) - s.low) & s.mask
}

func (s *typedSampler[T]) Format(offset uint64) string {
	v := T(s.low + offset)
	if s.kind.Signed() {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatUint(uint64(v), 10)
}

func (s *typedSampler[T]) String() string {
	return s.r.String()
}

func newTypedSampler[T distribution.Integer](low, high string) (Sampler, error) {
	kind := distribution.KindOf[T]()

	lo, err := parseBound[T](kind, low)
	if err != nil {
		return nil, fmt.Errorf("invalid low bound: %w", err)
	}
	hi, err := parseBound[T](kind, high)
	if err != nil {
		return nil, fmt.Errorf("invalid high bound: %w", err)
	}

	r, err := distribution.NewUniformRange(lo, hi)
	if err != nil {
		return nil, err
	}
	return &typedSampler[T]{
		r:    r,
		kind: kind,
		mask: kind.Max(),
		low:  uint64(lo),
	}, nil
}

func parseBound[T distribution.Integer](kind distribution.Kind, s string) (T, error) {
	if kind.Signed() {
		v, err := strconv.ParseInt(s, 10, int(kind.Bits()))
		return T(v), err
	}
	v, err := strconv.ParseUint(s, 10, int(kind.Bits()))
	return T(v), err
}

// NewSampler constructs the uniform range distribution over [low, high)
// for the named integer kind.
func NewSampler(kind, low, high string) (Sampler, error) {
	k, err := distribution.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	switch k {
	case distribution.KindInt8:
		return newTypedSampler[int8](low, high)
	case distribution.KindInt16:
		return newTypedSampler[int16](low, high)
	case distribution.KindInt32:
		return newTypedSampler[int32](low, high)
	case distribution.KindInt64:
		return newTypedSampler[int64](low, high)
	case distribution.KindInt:
		return newTypedSampler[int](low, high)
	case distribution.KindUint8:
		return newTypedSampler[uint8](low, high)
	case distribution.KindUint16:
		return newTypedSampler[uint16](low, high)
	case distribution.KindUint32:
		return newTypedSampler[uint32](low, high)
	case distribution.KindUint64:
		return newTypedSampler[uint64](low, high)
	case distribution.KindUint:
		return newTypedSampler[uint](low, high)
	case distribution.KindUintptr:
		return newTypedSampler[uintptr](low, high)
	default:
		return nil, fmt.Errorf("unsupported kind: %s", k)
	}
}

// NewSource constructs the configured bit source. Deterministic sources
// are seeded from the configured seed label.
func NewSource(cfg *config.SamplerConfig) (distribution.BitSource, error) {
	seed := source.SeedFromLabel(cfg.Seed)

	switch cfg.Source {
	case config.SourceMath:
		return source.NewMath(seed), nil
	case config.SourceChaCha:
		return source.NewChaChaFromSeed(seed), nil
	case config.SourceCounter:
		return source.NewCounter(seed), nil
	case config.SourceSystem:
		return source.NewSystem(), nil
	default:
		return nil, fmt.Errorf("unknown source: '%s'", cfg.Source)
	}
}

// SourceLogFields returns the log key/value pairs describing the
// configured bit source, including the seed label when the source is
// reproducible from it.
func SourceLogFields(cfg *config.SamplerConfig) []interface{} {
	fields := []interface{}{"source", cfg.Source}
	if cfg.Source.IsDeterministic() {
		fields = append(fields, "seed", cfg.Seed)
	}
	return fields
}
