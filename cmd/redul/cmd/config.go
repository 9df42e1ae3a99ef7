package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-redul/redul/pkg/config"
)

var configDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: `Print the configuration the run command would use, as YAML.

Without --config, redul.yaml is read from --dir when present and the
defaults are used otherwise.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVar(&configDir, "dir", ".", "directory to look for "+config.FileName+" in")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
