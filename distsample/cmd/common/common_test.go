package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/GrahamDennis/distributions/config"
)

func writeConfigFile(t *testing.T, raw string) string {
	path := filepath.Join(t.TempDir(), "distsample.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600), "WriteFile")
	return path
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, "sampler:\n  kind: int16\n  source: chacha\n")
	viper.Set(CfgConfigFile, path)
	t.Cleanup(func() { viper.Set(CfgConfigFile, "") })

	t.Run("SeedFromEnv", func(t *testing.T) {
		require := require.New(t)

		t.Setenv("DISTSAMPLE_SAMPLER_SEED", "env-seed")
		cfg, err := loadConfig()
		require.NoError(err, "seed from the environment completes the file")
		require.Equal(config.SourceChaCha, cfg.Sampler.Source, "source from the file")
		require.Equal("int16", cfg.Sampler.Kind, "kind from the file")
		require.Equal("env-seed", cfg.Sampler.Seed)
	})

	t.Run("SeedMissing", func(t *testing.T) {
		_, err := loadConfig()
		require.Error(t, err, "a seeded source still needs a seed from somewhere")
	})

	t.Run("SeedFromFlag", func(t *testing.T) {
		require := require.New(t)

		require.NoError(SamplerFlags.Set(CfgSamplerSeed, "run-1"), "Set seed flag")
		require.NoError(SamplerFlags.Set(CfgSamplerKind, "uint32"), "Set kind flag")
		t.Cleanup(func() {
			_ = SamplerFlags.Set(CfgSamplerSeed, "")
			_ = SamplerFlags.Set(CfgSamplerKind, config.DefaultConfig().Sampler.Kind)
		})

		cfg, err := loadConfig()
		require.NoError(err, "seed from a flag completes the file")
		require.Equal(config.SourceChaCha, cfg.Sampler.Source)
		require.Equal("run-1", cfg.Sampler.Seed)
		require.Equal("uint32", cfg.Sampler.Kind, "flags override the file")
	})
}

func TestLoadConfigFileErrors(t *testing.T) {
	require := require.New(t)

	viper.Set(CfgConfigFile, writeConfigFile(t, "sampler:\n  bogus: 1\n"))
	t.Cleanup(func() { viper.Set(CfgConfigFile, "") })
	_, err := loadConfig()
	require.Error(err, "unknown fields in the file are rejected")

	viper.Set(CfgConfigFile, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = loadConfig()
	require.Error(err, "missing config file")
}
