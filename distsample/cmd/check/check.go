// Package check implements the check sub-command.
package check

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GrahamDennis/distributions/common/logging"
	"github.com/GrahamDennis/distributions/distribution/source"
	cmdCommon "github.com/GrahamDennis/distributions/distsample/cmd/common"
	"github.com/GrahamDennis/distributions/stats/chisquared"
)

const (
	// CfgBuckets is the maximum number of goodness of fit buckets.
	CfgBuckets = "check.buckets"
	// CfgMetrics dumps the collected metrics after the check.
	CfgMetrics = "check.metrics"

	// minExpected is the smallest expected bucket count for which the
	// chi-squared approximation is considered reliable.
	minExpected = 5
)

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "check a uniform integer range for goodness of fit",
		Run:   doCheck,
	}

	checkFlags = flag.NewFlagSet("", flag.ContinueOnError)

	logger = logging.GetLogger("cmd/check")
)

type report struct {
	distribution string
	samples      uint64
	buckets      int

	result *chisquared.Result

	drawsPerSample         float64
	expectedDrawsPerSample float64
}

// Passed returns true iff the samples are consistent with a uniform
// distribution at the configured confidence.
func (r *report) Passed() bool {
	return r.result.Pass
}

func (r *report) write(w io.Writer) {
	verdict := "FAIL"
	if r.Passed() {
		verdict = "PASS"
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"distribution", "samples", "buckets", "statistic", "critical", "draws/sample", "expected", "result"})
	table.Append([]string{
		r.distribution,
		strconv.FormatUint(r.samples, 10),
		strconv.Itoa(r.buckets),
		strconv.FormatFloat(r.result.Statistic, 'f', 3, 64),
		strconv.FormatFloat(r.result.Critical, 'f', 3, 64),
		strconv.FormatFloat(r.drawsPerSample, 'f', 4, 64),
		strconv.FormatFloat(r.expectedDrawsPerSample, 'f', 4, 64),
		verdict,
	})
	table.Render()
}

func runCheck(s cmdCommon.Sampler, src *source.Instrumented, count uint64, maxBuckets uint64, confidence float64) (*report, error) {
	if s.RangeWidth() < 2 {
		return nil, fmt.Errorf("range of %s has a single value, nothing to check", s)
	}
	if maxBuckets < 2 {
		return nil, fmt.Errorf("at least 2 buckets are required, got %d", maxBuckets)
	}

	b := newBinner(s.RangeWidth(), maxBuckets)
	if float64(count)/float64(b.bins) < minExpected {
		logger.Warn("too few samples per bucket, results are unreliable",
			"samples", count,
			"buckets", b.bins,
		)
	}

	observed := make([]uint64, b.bins)
	draws32, draws64 := src.Draws()
	for i := uint64(0); i < count; i++ {
		observed[b.bin(s.Draw(src))]++
	}
	after32, after64 := src.Draws()

	result, err := chisquared.GoodnessOfFitWeighted(observed, b.sizes(), confidence)
	if err != nil {
		return nil, err
	}

	return &report{
		distribution:           s.String(),
		samples:                count,
		buckets:                len(observed),
		result:                 result,
		drawsPerSample:         float64((after32-draws32)+(after64-draws64)) / float64(count),
		expectedDrawsPerSample: math.Ldexp(1, int(s.Kind().Bits())) / float64(s.AcceptanceBound()),
	}, nil
}

func writeMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func doCheck(cmd *cobra.Command, args []string) {
	if err := cmdCommon.Init(); err != nil {
		cmdCommon.EarlyLogAndExit(err)
	}
	cfg := &cmdCommon.Config().Sampler

	s, err := cmdCommon.NewSampler(cfg.Kind, cfg.Low, cfg.High)
	if err != nil {
		logger.Error("failed to construct distribution",
			"err", err,
		)
		cmdCommon.EarlyLogAndExit(err)
	}

	src, err := cmdCommon.NewSource(cfg)
	if err != nil {
		logger.Error("failed to construct bit source",
			append([]interface{}{"err", err}, cmdCommon.SourceLogFields(cfg)...)...,
		)
		os.Exit(1)
	}

	logger.Info("checking",
		append([]interface{}{"distribution", s, "count", cfg.Count}, cmdCommon.SourceLogFields(cfg)...)...,
	)

	r, err := runCheck(s, source.Instrument(src, string(cfg.Source)), cfg.Count, viper.GetUint64(CfgBuckets), cfg.Confidence)
	if err != nil {
		logger.Error("check failed",
			"err", err,
		)
		cmdCommon.EarlyLogAndExit(err)
	}
	r.write(os.Stdout)

	if viper.GetBool(CfgMetrics) {
		if err = writeMetrics(os.Stdout); err != nil {
			logger.Error("failed to write metrics",
				"err", err,
			)
			os.Exit(1)
		}
	}

	if !r.Passed() {
		logger.Error("samples are not consistent with a uniform distribution",
			"statistic", r.result.Statistic,
			"critical", r.result.Critical,
			"dof", r.result.DegreesOfFreedom,
		)
		os.Exit(1)
	}
}

// Register registers the check sub-command.
func Register(parentCmd *cobra.Command) {
	checkCmd.Flags().AddFlagSet(cmdCommon.SamplerFlags)
	checkCmd.Flags().AddFlagSet(checkFlags)
	parentCmd.AddCommand(checkCmd)
}

func init() {
	checkFlags.Uint64(CfgBuckets, 100, "maximum number of goodness of fit buckets")
	checkFlags.Bool(CfgMetrics, false, "dump collected metrics after the check")
	_ = viper.BindPFlags(checkFlags)
}
