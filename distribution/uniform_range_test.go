package distribution

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GrahamDennis/distributions/common/cbor"
	"github.com/GrahamDennis/distributions/common/errors"
	"github.com/GrahamDennis/distributions/stats/chisquared"
)

type level int8

func newTestSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb))
}

// bounds returns the minimum and maximum of T.
func bounds[T Integer]() (T, T) {
	k := KindOf[T]()
	if k.Signed() {
		maxV := T(k.Max() >> 1)
		return ^maxV, maxV
	}
	return 0, T(k.Max())
}

func testRangesInRange[T Integer](t *testing.T) {
	require := require.New(t)

	src := newTestSource(1)
	minV, maxV := bounds[T]()
	ranges := [][2]T{
		{minV, maxV},
		{minV, minV + 1},
		{minV, minV + 3},
		{maxV - 1, maxV},
		{maxV - 7, maxV},
		{0, 1},
		{0, maxV},
		{1, 10},
	}
	if KindOf[T]().Signed() {
		ranges = append(ranges, [2]T{^T(0), 1}, [2]T{minV, 0}, [2]T{minV / 2, maxV / 2})
	}

	for _, rng := range ranges {
		low, high := rng[0], rng[1]
		d, err := NewUniformRange(low, high)
		require.NoError(err, "NewUniformRange(%d, %d)", low, high)
		require.Equal(low, d.Low())
		require.Equal(high, d.High())

		for i := 0; i < 1000; i++ {
			v := d.Sample(src)
			require.True(low <= v && v < high, "sample %d out of range [%d, %d)", v, low, high)
		}
	}

	// Single element ranges have exactly one possible value.
	d, err := NewUniformRange(maxV-1, maxV)
	require.NoError(err)
	for i := 0; i < 100; i++ {
		require.Equal(maxV-1, d.Sample(src), "upper bound must never be produced")
	}
}

func testInvalidRanges[T Integer](t *testing.T) {
	require := require.New(t)

	minV, maxV := bounds[T]()
	for _, rng := range [][2]T{
		{minV, minV},
		{maxV, minV},
		{maxV, maxV},
		{10, 10},
		{10, 5},
		{maxV, 0},
	} {
		d, err := NewUniformRange(rng[0], rng[1])
		require.Error(err, "NewUniformRange(%d, %d)", rng[0], rng[1])
		require.True(errors.Is(err, ErrInvalidRange), "error should be ErrInvalidRange")
		require.Nil(d)

		_, err = Range[T]{Low: rng[0], High: rng[1]}.IntoDistribution()
		require.True(errors.Is(err, ErrInvalidRange), "conversion should fail with ErrInvalidRange")
	}
}

func forEachKind(t *testing.T, fn map[Kind]func(*testing.T)) {
	for _, kind := range Kinds() {
		f, ok := fn[kind]
		require.True(t, ok, "missing test for kind %s", kind)
		t.Run(kind.String(), f)
	}
}

func TestUniformRangeInRange(t *testing.T) {
	forEachKind(t, map[Kind]func(*testing.T){
		KindInt8:    testRangesInRange[int8],
		KindInt16:   testRangesInRange[int16],
		KindInt32:   testRangesInRange[int32],
		KindInt64:   testRangesInRange[int64],
		KindInt:     testRangesInRange[int],
		KindUint8:   testRangesInRange[uint8],
		KindUint16:  testRangesInRange[uint16],
		KindUint32:  testRangesInRange[uint32],
		KindUint64:  testRangesInRange[uint64],
		KindUint:    testRangesInRange[uint],
		KindUintptr: testRangesInRange[uintptr],
	})
	t.Run("named", testRangesInRange[level])
}

func TestUniformRangeInvalid(t *testing.T) {
	forEachKind(t, map[Kind]func(*testing.T){
		KindInt8:    testInvalidRanges[int8],
		KindInt16:   testInvalidRanges[int16],
		KindInt32:   testInvalidRanges[int32],
		KindInt64:   testInvalidRanges[int64],
		KindInt:     testInvalidRanges[int],
		KindUint8:   testInvalidRanges[uint8],
		KindUint16:  testInvalidRanges[uint16],
		KindUint32:  testInvalidRanges[uint32],
		KindUint64:  testInvalidRanges[uint64],
		KindUint:    testInvalidRanges[uint],
		KindUintptr: testInvalidRanges[uintptr],
	})
}

func TestUniformRangeParameters(t *testing.T) {
	require := require.New(t)

	checkParams := func(d interface {
		RangeWidth() uint64
		AcceptanceBound() uint64
	}, maxU uint64, width, bound uint64,
	) {
		require.Equal(width, d.RangeWidth(), "range width")
		require.Equal(bound, d.AcceptanceBound(), "acceptance bound")
		require.Zero(d.AcceptanceBound()%d.RangeWidth(), "acceptance bound must be a multiple of the width")
		require.True(0 < d.AcceptanceBound() && d.AcceptanceBound() <= maxU, "acceptance bound out of (0, max]")
	}

	u8, err := NewUniformRange[uint8](0, 3)
	require.NoError(err)
	checkParams(u8, math.MaxUint8, 3, 255)

	u8, err = NewUniformRange[uint8](0, 128)
	require.NoError(err)
	checkParams(u8, math.MaxUint8, 128, 128)

	u8, err = NewUniformRange[uint8](0, 129)
	require.NoError(err)
	checkParams(u8, math.MaxUint8, 129, 129)

	u8, err = NewUniformRange[uint8](1, 10)
	require.NoError(err)
	checkParams(u8, math.MaxUint8, 9, 252)

	i8, err := NewUniformRange[int8](math.MinInt8, math.MaxInt8)
	require.NoError(err)
	checkParams(i8, math.MaxUint8, 255, 255)

	i16, err := NewUniformRange[int16](-1, 1)
	require.NoError(err)
	checkParams(i16, math.MaxUint16, 2, math.MaxUint16-1)

	u64, err := NewUniformRange[uint64](0, math.MaxUint64)
	require.NoError(err)
	checkParams(u64, math.MaxUint64, math.MaxUint64, math.MaxUint64)

	i64, err := NewUniformRange[int64](math.MinInt64, math.MaxInt64)
	require.NoError(err)
	checkParams(i64, math.MaxUint64, math.MaxUint64, math.MaxUint64)

	i64, err = NewUniformRange[int64](math.MinInt64, 1)
	require.NoError(err)
	checkParams(i64, math.MaxUint64, 1<<63+1, 1<<63+1)
}

// scriptedSource returns a fixed sequence of words, recording the width
// of each draw.
type scriptedSource struct {
	words []uint64
	draws []int
}

func (s *scriptedSource) next(width int) uint64 {
	if len(s.words) == 0 {
		panic("scriptedSource: out of words")
	}
	w := s.words[0]
	s.words = s.words[1:]
	s.draws = append(s.draws, width)
	return w
}

func (s *scriptedSource) Uint32() uint32 { return uint32(s.next(32)) }
func (s *scriptedSource) Uint64() uint64 { return s.next(64) }

func TestUniformRangeRejection(t *testing.T) {
	require := require.New(t)

	// [0, 3) over uint8 accepts draws below 255.
	d, err := NewUniformRange[uint8](0, 3)
	require.NoError(err)
	src := &scriptedSource{words: []uint64{0xff, 0x1ff, 4}}
	require.EqualValues(1, d.Sample(src), "0xff must be rejected, 0x1ff truncates to 0xff")
	require.Equal([]int{32, 32, 32}, src.draws)
	require.Empty(src.words)

	// [0, 128) over uint8 accepts exactly half of all draws.
	d, err = NewUniformRange[uint8](0, 128)
	require.NoError(err)
	src = &scriptedSource{words: []uint64{200, 128, 127}}
	require.EqualValues(127, d.Sample(src))
	require.Empty(src.words)

	// Signed ranges map the accepted residue back through the bit pattern.
	i8, err := NewUniformRange[int8](math.MinInt8, math.MaxInt8)
	require.NoError(err)
	src = &scriptedSource{words: []uint64{255, 254, 0}}
	require.EqualValues(126, i8.Sample(src), "-128 + 254")
	require.EqualValues(math.MinInt8, i8.Sample(src))

	// 64-bit kinds draw 64-bit words.
	i64, err := NewUniformRange[int64](-10, 10)
	require.NoError(err)
	src = &scriptedSource{words: []uint64{math.MaxUint64, 25}}
	require.EqualValues(-5, i64.Sample(src))
	require.Equal([]int{64, 64}, src.draws)
}

func TestUniformRangeUniformity(t *testing.T) {
	require := require.New(t)

	const nrSamples = 100000

	src := newTestSource(42)
	d, err := NewUniformRange[uint32](0, 3)
	require.NoError(err)

	counts := make([]uint64, 3)
	for i := 0; i < nrSamples; i++ {
		counts[d.Sample(src)]++
	}
	res, err := chisquared.GoodnessOfFit(counts, 0.999)
	require.NoError(err)
	t.Logf("[0, 3): counts %v chiSq %v", counts, res.Statistic)
	require.True(res.Pass, "chiSq %v >= %v", res.Statistic, res.Critical)

	// A plain modulo over uint8 would make 0..55 twice as likely as
	// 56..199 within [0, 200).
	u8, err := NewUniformRange[uint8](0, 200)
	require.NoError(err)
	counts = make([]uint64, 200)
	for i := 0; i < 200*500; i++ {
		counts[u8.Sample(src)]++
	}
	res, err = chisquared.GoodnessOfFit(counts, 0.999)
	require.NoError(err)
	require.True(res.Pass, "[0, 200): chiSq %v >= %v", res.Statistic, res.Critical)

	// The full signed width exercises the signed/unsigned mapping.
	i8, err := NewUniformRange[int8](math.MinInt8, math.MaxInt8)
	require.NoError(err)
	counts = make([]uint64, 255)
	for i := 0; i < 255*400; i++ {
		counts[int(i8.Sample(src))-math.MinInt8]++
	}
	res, err = chisquared.GoodnessOfFit(counts, 0.999)
	require.NoError(err)
	require.True(res.Pass, "int8: chiSq %v >= %v", res.Statistic, res.Critical)
}

func TestRangeIntoDistribution(t *testing.T) {
	require := require.New(t)

	rng := NewRange[uint8](1, 10)
	d1, err := rng.IntoDistribution()
	require.NoError(err)
	d2, err := Range[uint8]{Low: 1, High: 10}.IntoDistribution()
	require.NoError(err)

	u1, u2 := d1.(*UniformRange[uint8]), d2.(*UniformRange[uint8])
	require.True(u1.Equal(u2), "equal ranges must convert to equal distributions")
	require.Equal(u1.Low(), u2.Low())
	require.Equal(u1.RangeWidth(), u2.RangeWidth())
	require.Equal(u1.AcceptanceBound(), u2.AcceptanceBound())

	// Equal parameters sample identically from identical sources.
	src1, src2 := newTestSource(7), newTestSource(7)
	for i := 0; i < 100; i++ {
		require.Equal(d1.Sample(src1), d2.Sample(src2))
	}
}

func TestUniformRangeScenarios(t *testing.T) {
	require := require.New(t)

	src := newTestSource(3)

	d, err := NewUniformRange[uint8](1, 10)
	require.NoError(err)
	seen := make(map[uint8]bool)
	for i := 0; i < 10000; i++ {
		v := d.Sample(src)
		require.True(v >= 1 && v <= 9, "sample %d not in {1, ..., 9}", v)
		seen[v] = true
	}
	require.Len(seen, 9, "every value of {1, ..., 9} should appear")

	_, err = NewUniformRange(10, 10)
	require.True(errors.Is(err, ErrInvalidRange))
	require.Equal("distribution: invalid range, low must be less than high: int: low=10 high=10", err.Error())
	module, code := errors.Code(err)
	require.Equal(ModuleName, module)
	require.EqualValues(1, code)

	i8, err := NewUniformRange[int8](math.MinInt8, math.MaxInt8)
	require.NoError(err)
	for i := 0; i < 10000; i++ {
		v := i8.Sample(src)
		require.True(v < math.MaxInt8, "sample %d must be below 127", v)
	}
}

func TestUniformRangeCBOR(t *testing.T) {
	require := require.New(t)

	d, err := NewUniformRange[int16](-300, 1000)
	require.NoError(err)

	data := cbor.Marshal(d)
	require.Equal(cbor.Marshal(NewRange[int16](-300, 1000)), data, "only the endpoints are serialized")

	var dec UniformRange[int16]
	require.NoError(cbor.Unmarshal(data, &dec))
	require.True(d.Equal(&dec))

	err = cbor.Unmarshal(cbor.Marshal(NewRange[int16](5, 5)), &dec)
	require.True(errors.Is(err, ErrInvalidRange), "decoding must validate the bounds")
}

func TestUniformRangeString(t *testing.T) {
	d, err := NewUniformRange[level](-3, 4)
	require.NoError(t, err)
	require.Equal(t, "UniformRange[int8]{-3..4}", fmt.Sprint(d))
}
