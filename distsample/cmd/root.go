// Package cmd implements the commands for the distsample executable.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/GrahamDennis/distributions/common/version"
	"github.com/GrahamDennis/distributions/distsample/cmd/check"
	cmdCommon "github.com/GrahamDennis/distributions/distsample/cmd/common"
	"github.com/GrahamDennis/distributions/distsample/cmd/sample"
)

var rootCmd = &cobra.Command{
	Use:     "distsample",
	Short:   "Uniform integer distribution sampler",
	Version: version.SoftwareVersion,
}

// RootCommand returns the root (top level) cobra.Command.
func RootCommand() *cobra.Command {
	return rootCmd
}

// Execute spawns the main entry point after handling the config file
// and command line arguments.
func Execute() {
	err := rootCmd.Execute()
	cmdCommon.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func initVersions() {
	cobra.AddTemplateFunc("toolchain", func() interface{} { return version.Toolchain })

	rootCmd.SetVersionTemplate(`Software version: {{.Version}}
Go toolchain version: {{ toolchain }}
`)
}

func init() {
	initVersions()

	rootCmd.PersistentFlags().AddFlagSet(cmdCommon.RootFlags)

	for _, v := range []func(*cobra.Command){
		sample.Register,
		check.Register,
	} {
		v(rootCmd)
	}
}
