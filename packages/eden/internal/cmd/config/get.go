package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/config"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value.

Examples:
  eden config get core.config_env
  eden config get display.output
  eden config get cloud.region`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(c *cobra.Command, args []string) error {
	key := args[0]

	cfg, err := config.Load(c.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	value := cfg.Get(key)
	if value == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	fmt.Println(value)
	return nil
}
