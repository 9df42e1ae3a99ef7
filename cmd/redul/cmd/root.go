// Package cmd implements the redul CLI commands.
//
// The root command carries the --config flag shared by every
// subcommand (run, config, version).
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-redul/redul/pkg/config"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "redul",
	Short: "Redul - a fiber reconciler and cooperative scheduler for Go",
	Long: `Redul renders component trees through a fiber reconciler whose work is
split into units and interleaved with other tasks by a priority scheduler.

The CLI runs the bundled showcase apps against an in-memory host tree.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to "+config.FileName+" (default: ./"+config.FileName+" if present)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the configuration from --config or dir.
func loadConfig(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadOptional(dir)
}
