package env

import (
	"github.com/spf13/cobra"
)

var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect and manage configuration environments",
	Long:  "Resolve, list, create and compare configuration environments.",
}

func init() {
	EnvCmd.AddCommand(showCmd)
	EnvCmd.AddCommand(listCmd)
	EnvCmd.AddCommand(createCmd)
	EnvCmd.AddCommand(diffCmd)
}
