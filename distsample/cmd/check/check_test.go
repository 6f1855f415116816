package check

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GrahamDennis/distributions/distribution/source"
	cmdCommon "github.com/GrahamDennis/distributions/distsample/cmd/common"
)

func TestBinner(t *testing.T) {
	require := require.New(t)

	b := newBinner(7, 100)
	require.EqualValues(7, b.bins, "narrow ranges get one bin per value")
	for x := uint64(0); x < 7; x++ {
		require.Equal(x, b.bin(x))
	}
	require.Equal([]float64{1, 1, 1, 1, 1, 1, 1}, b.sizes())

	b = newBinner(10, 4)
	var got []uint64
	for x := uint64(0); x < 10; x++ {
		got = append(got, b.bin(x))
	}
	require.Equal([]uint64{0, 0, 0, 1, 1, 2, 2, 2, 3, 3}, got)
	require.Equal([]float64{3, 2, 3, 2}, b.sizes())

	b = newBinner(math.MaxUint64, 100)
	require.EqualValues(0, b.bin(0))
	require.EqualValues(99, b.bin(math.MaxUint64-1))
	var total float64
	for _, sz := range b.sizes() {
		total += sz
	}
	require.InEpsilon(float64(math.MaxUint64), total, 1e-12, "bin sizes should cover the range")
}

func TestRunCheck(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		kind, low, high string
	}{
		{"uint8", "0", "3"},
		{"int8", "-128", "127"},
		{"int16", "-1000", "1000"},
		{"uint32", "0", "4294967295"},
		{"int64", "-9223372036854775808", "9223372036854775807"},
	} {
		s, err := cmdCommon.NewSampler(tc.kind, tc.low, tc.high)
		require.NoError(err, "NewSampler(%s, %s, %s)", tc.kind, tc.low, tc.high)

		src := source.Instrument(source.NewMath(source.SeedFromLabel(tc.kind)), "test")
		r, err := runCheck(s, src, 50000, 50, 0.999)
		require.NoError(err, "runCheck %s", s)
		require.True(r.Passed(), "%s: statistic %f critical %f", s, r.result.Statistic, r.result.Critical)
		require.InEpsilon(r.expectedDrawsPerSample, r.drawsPerSample, 0.05, "%s draws per sample", s)

		var buf bytes.Buffer
		r.write(&buf)
		require.Contains(buf.String(), "PASS")
		require.Contains(buf.String(), s.String())
	}
}

func TestRunCheckExpectedDraws(t *testing.T) {
	require := require.New(t)

	// [0, 129) accepts only 129 of 256 words.
	s, err := cmdCommon.NewSampler("uint8", "0", "129")
	require.NoError(err, "NewSampler")

	r, err := runCheck(s, source.Instrument(source.NewMath(3), "test"), 20000, 129, 0.999)
	require.NoError(err, "runCheck")
	require.InDelta(256.0/129.0, r.expectedDrawsPerSample, 1e-12)
	require.InEpsilon(r.expectedDrawsPerSample, r.drawsPerSample, 0.05)
}

func TestRunCheckErrors(t *testing.T) {
	require := require.New(t)

	s, err := cmdCommon.NewSampler("int32", "5", "6")
	require.NoError(err, "NewSampler")
	_, err = runCheck(s, source.Instrument(source.NewMath(1), "test"), 100, 10, 0.999)
	require.Error(err, "single value range")

	s, err = cmdCommon.NewSampler("int32", "0", "6")
	require.NoError(err, "NewSampler")
	_, err = runCheck(s, source.Instrument(source.NewMath(1), "test"), 100, 1, 0.999)
	require.Error(err, "single bucket")

	_, err = runCheck(s, source.Instrument(source.NewMath(1), "test"), 100, 10, 0.5)
	require.Error(err, "unsupported confidence")
}

func TestWriteMetrics(t *testing.T) {
	require := require.New(t)

	src := source.Instrument(source.NewMath(1), "metrics-test")
	_ = src.Uint64()

	var buf bytes.Buffer
	require.NoError(writeMetrics(&buf))
	require.Contains(buf.String(), `distributions_source_draws_total{source="metrics-test",width="64"} 1`)
}
