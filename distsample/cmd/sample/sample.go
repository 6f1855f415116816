// Package sample implements the sample sub-command.
package sample

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GrahamDennis/distributions/common/logging"
	"github.com/GrahamDennis/distributions/distribution"
	cmdCommon "github.com/GrahamDennis/distributions/distsample/cmd/common"
)

var (
	sampleCmd = &cobra.Command{
		Use:   "sample",
		Short: "draw samples from a uniform integer range",
		Run:   doSample,
	}

	logger = logging.GetLogger("cmd/sample")
)

func writeSamples(w io.Writer, s cmdCommon.Sampler, src distribution.BitSource, count uint64) error {
	bw := bufio.NewWriter(w)
	for i := uint64(0); i < count; i++ {
		if _, err := fmt.Fprintln(bw, s.Format(s.Draw(src))); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func doSample(cmd *cobra.Command, args []string) {
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

	logger.Info("sampling",
		append([]interface{}{"distribution", s, "count", cfg.Count}, cmdCommon.SourceLogFields(cfg)...)...,
	)

	if err = writeSamples(os.Stdout, s, src, cfg.Count); err != nil {
		logger.Error("failed to write samples",
			"err", err,
		)
		os.Exit(1)
	}
}

// Register registers the sample sub-command.
func Register(parentCmd *cobra.Command) {
	sampleCmd.Flags().AddFlagSet(cmdCommon.SamplerFlags)
	parentCmd.AddCommand(sampleCmd)
}
