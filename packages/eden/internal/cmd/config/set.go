package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/config"
	"github.com/yacchi/eden-cli/internal/ui"
)

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user config file.

Examples:
  eden config set core.config_env dev
  eden config set display.output json
  eden config set display.color never`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func runSet(c *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load(c.Context())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 既知のキーのみ受け付ける
	if cfg.Get(key) == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Set(key, parseValue(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	if err := cfg.Save(c.Context()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	ui.Success("Set %s=%s in %s", key, value, cfg.GetUserConfigPath())
	return nil
}

// parseValue は bool / int に見える文字列を型付きの値に変換する
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
