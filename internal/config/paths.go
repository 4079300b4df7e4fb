package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the application name used for config directories
const AppName = "eden"

// configDir returns the config directory path (~/.config/eden)
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config
func configDir() (string, error) {
	// XDG_CONFIG_HOME を優先
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	// フォールバック: ~/.config (XDG仕様のデフォルト)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// configPath returns the user config file path (~/.config/eden/config.yaml)
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DotToPointer converts a dot-separated path to a JSON Pointer.
// Example: "display.output" -> "/display/output"
func DotToPointer(dotPath string) string {
	return "/" + strings.ReplaceAll(dotPath, ".", "/")
}
