package config

import (
	"github.com/spf13/cobra"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage eden CLI configuration",
	Long: `Read and write the CLI's own configuration.

Values are resolved from defaults, the user config file, the project
.eden.yaml, EDEN_* environment variables and command line flags.`,
}

func init() {
	ConfigCmd.AddCommand(getCmd)
	ConfigCmd.AddCommand(setCmd)
	ConfigCmd.AddCommand(listCmd)
	ConfigCmd.AddCommand(pathCmd)
}
