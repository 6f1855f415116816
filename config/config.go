// Package config implements the configuration of the distsample tool.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/GrahamDennis/distributions/common/logging"
	"github.com/GrahamDennis/distributions/distribution"
	"github.com/GrahamDennis/distributions/stats/chisquared"
)

// SourceKind is the kind of bit source to sample from.
type SourceKind string

const (
	// SourceMath is a math/rand/v2 PCG generator.
	SourceMath SourceKind = "math"
	// SourceChaCha is a ChaCha20 keystream.
	SourceChaCha SourceKind = "chacha"
	// SourceCounter is a counter mode xxh3 generator.
	SourceCounter SourceKind = "counter"
	// SourceSystem is the operating system's entropy source.
	SourceSystem SourceKind = "system"
)

// IsDeterministic returns true iff the source is reproducible from its
// seed.
func (k SourceKind) IsDeterministic() bool {
	switch k {
	case SourceMath, SourceChaCha, SourceCounter:
		return true
	}
	return false
}

// Config is the top-level configuration structure.
type Config struct {
	Log     LogConfig     `yaml:"log,omitempty"`
	Sampler SamplerConfig `yaml:"sampler"`
}

// LogConfig is the logging configuration structure.
type LogConfig struct {
	// Log file, standard error if empty.
	File string `yaml:"file,omitempty"`
	// Log format (logfmt, json).
	Format string `yaml:"format,omitempty"`
	// Log level (debug, info, warn, error) per module, "default" applies
	// to modules without an entry.
	Level map[string]string `yaml:"level,omitempty"`
}

// SamplerConfig is the sampling configuration structure.
type SamplerConfig struct {
	// Integer kind to sample (int8, uint64, ...).
	Kind string `yaml:"kind"`
	// Inclusive lower bound, in decimal.
	Low string `yaml:"low"`
	// Exclusive upper bound, in decimal.
	High string `yaml:"high"`
	// Number of samples to draw.
	Count uint64 `yaml:"count"`
	// Bit source to draw from.
	Source SourceKind `yaml:"source"`
	// Seed label for deterministic sources.
	Seed string `yaml:"seed,omitempty"`
	// Confidence probability of goodness of fit checks.
	Confidence float64 `yaml:"confidence"`
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	var err error
	for _, vErr := range multierr.Errors(c.Log.Validate()) {
		err = multierr.Append(err, fmt.Errorf("log: %w", vErr))
	}
	for _, vErr := range multierr.Errors(c.Sampler.Validate()) {
		err = multierr.Append(err, fmt.Errorf("sampler: %w", vErr))
	}
	return err
}

// Validate validates the logging configuration settings.
func (c *LogConfig) Validate() error {
	var err error

	var f logging.Format
	if fErr := f.Set(c.Format); fErr != nil {
		err = multierr.Append(err, fErr)
	}
	for module, lvl := range c.Level {
		var l logging.Level
		if lErr := l.Set(lvl); lErr != nil {
			err = multierr.Append(err, fmt.Errorf("module '%s': %w", module, lErr))
		}
	}

	return err
}

// Validate validates the sampling configuration settings. Whether Low is
// less than High is left to the distribution itself.
func (c *SamplerConfig) Validate() error {
	var err error

	kind, kErr := distribution.ParseKind(c.Kind)
	if kErr != nil {
		err = multierr.Append(err, kErr)
	} else {
		if pErr := checkBound(kind, c.Low); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("low: %w", pErr))
		}
		if pErr := checkBound(kind, c.High); pErr != nil {
			err = multierr.Append(err, fmt.Errorf("high: %w", pErr))
		}
	}

	if c.Count == 0 {
		err = multierr.Append(err, fmt.Errorf("count must be positive"))
	}

	switch c.Source {
	case SourceMath, SourceChaCha, SourceCounter:
		if c.Seed == "" {
			err = multierr.Append(err, fmt.Errorf("source '%s' requires a seed", c.Source))
		}
	case SourceSystem:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown source: '%s'", c.Source))
	}

	var confidenceOk bool
	for _, p := range chisquared.ConfidenceProbAvailable() {
		if p == c.Confidence {
			confidenceOk = true
			break
		}
	}
	if !confidenceOk {
		err = multierr.Append(err, fmt.Errorf("unsupported confidence: %g (available: %v)", c.Confidence, chisquared.ConfidenceProbAvailable()))
	}

	return err
}

func checkBound(kind distribution.Kind, s string) error {
	var err error
	if kind.Signed() {
		_, err = strconv.ParseInt(s, 10, int(kind.Bits()))
	} else {
		_, err = strconv.ParseUint(s, 10, int(kind.Bits()))
	}
	return err
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			File:   "",
			Format: "logfmt",
			Level: map[string]string{
				"default": "warn",
			},
		},
		Sampler: SamplerConfig{
			Kind:       "uint8",
			Low:        "0",
			High:       "10",
			Count:      10,
			Source:     SourceSystem,
			Confidence: 0.999,
		},
	}
}

// Load reads the configuration from the given YAML file, on top of the
// default configuration, and validates it. Unknown fields are an error.
func Load(path string) (*Config, error) {
	cfg, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeFile reads the configuration from the given YAML file, on top of
// the default configuration, without validating it.
func DecodeFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file '%s': %w", path, err)
	}
	return Decode(raw)
}

// Parse parses and validates a YAML configuration document.
func Parse(raw []byte) (*Config, error) {
	cfg, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses a YAML configuration document on top of the default
// configuration. Unknown fields are an error, but the result is not
// validated, so that callers can layer further settings on top first.
func Decode(raw []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
