// Package common implements common things used by the distsample
// sub-commands.
package common

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/GrahamDennis/distributions/config"
)

const (
	// CfgConfigFile is the flag used to specify a config file.
	CfgConfigFile = "config"

	// CfgSamplerKind is the integer kind flag.
	CfgSamplerKind = "sampler.kind"
	// CfgSamplerLow is the inclusive lower bound flag.
	CfgSamplerLow = "sampler.low"
	// CfgSamplerHigh is the exclusive upper bound flag.
	CfgSamplerHigh = "sampler.high"
	// CfgSamplerCount is the sample count flag.
	CfgSamplerCount = "sampler.count"
	// CfgSamplerSource is the bit source flag.
	CfgSamplerSource = "sampler.source"
	// CfgSamplerSeed is the seed label flag.
	CfgSamplerSeed = "sampler.seed"
	// CfgSamplerConfidence is the goodness of fit confidence flag.
	CfgSamplerConfidence = "sampler.confidence"

	envPrefix = "DISTSAMPLE"
)

var (
	// RootFlags has the flags that are common across all commands.
	RootFlags = flag.NewFlagSet("", flag.ContinueOnError)

	// SamplerFlags has the flags describing the distribution to sample.
	SamplerFlags = flag.NewFlagSet("", flag.ContinueOnError)

	globalConfig = config.DefaultConfig()
)

// Init initializes the common environment across all commands: it
// resolves the configuration and sets up logging.
func Init() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err = initLogging(&cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	globalConfig = *cfg
	return nil
}

// loadConfig layers the config file, if any, over the defaults and the
// explicitly set flags and environment variables over both. Only the
// result is validated.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cfgFile := viper.GetString(CfgConfigFile); cfgFile != "" {
		decoded, err := config.DecodeFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = *decoded
	}

	applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Config returns the configuration resolved by Init.
func Config() *config.Config {
	return &globalConfig
}

// Cleanup releases resources acquired by Init.
func Cleanup() {
	closeLogFile()
}

// EarlyLogAndExit logs an error and exits, for use before logging is
// initialized.
func EarlyLogAndExit(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func applyOverrides(cfg *config.Config) {
	if viper.IsSet(cfgLogFile) {
		cfg.Log.File = viper.GetString(cfgLogFile)
	}
	if viper.IsSet(cfgLogFmt) {
		cfg.Log.Format = viper.GetString(cfgLogFmt)
	}
	if viper.IsSet(cfgLogLevel) {
		if cfg.Log.Level == nil {
			cfg.Log.Level = make(map[string]string)
		}
		cfg.Log.Level["default"] = viper.GetString(cfgLogLevel)
	}

	s := &cfg.Sampler
	if viper.IsSet(CfgSamplerKind) {
		s.Kind = viper.GetString(CfgSamplerKind)
	}
	if viper.IsSet(CfgSamplerLow) {
		s.Low = viper.GetString(CfgSamplerLow)
	}
	if viper.IsSet(CfgSamplerHigh) {
		s.High = viper.GetString(CfgSamplerHigh)
	}
	if viper.IsSet(CfgSamplerCount) {
		s.Count = viper.GetUint64(CfgSamplerCount)
	}
	if viper.IsSet(CfgSamplerSource) {
		s.Source = config.SourceKind(viper.GetString(CfgSamplerSource))
	}
	if viper.IsSet(CfgSamplerSeed) {
		s.Seed = viper.GetString(CfgSamplerSeed)
	}
	if viper.IsSet(CfgSamplerConfidence) {
		s.Confidence = viper.GetFloat64(CfgSamplerConfidence)
	}
}

func init() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	RootFlags.String(CfgConfigFile, "", "config file")
	initLoggingFlags()
	RootFlags.AddFlagSet(loggingFlags)
	_ = viper.BindPFlags(RootFlags)

	defaults := config.DefaultConfig().Sampler
	SamplerFlags.String(CfgSamplerKind, defaults.Kind, "integer kind to sample")
	SamplerFlags.String(CfgSamplerLow, defaults.Low, "inclusive lower bound")
	SamplerFlags.String(CfgSamplerHigh, defaults.High, "exclusive upper bound")
	SamplerFlags.Uint64(CfgSamplerCount, defaults.Count, "number of samples")
	SamplerFlags.String(CfgSamplerSource, string(defaults.Source), "bit source (math, chacha, counter, system)")
	SamplerFlags.String(CfgSamplerSeed, defaults.Seed, "seed label for deterministic bit sources")
	SamplerFlags.Float64(CfgSamplerConfidence, defaults.Confidence, "goodness of fit confidence probability")
	_ = viper.BindPFlags(SamplerFlags)
}
