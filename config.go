// Package eden provides public APIs for the eden CLI and its
// environment resolver.
//
// This package exposes minimal entry points for external use,
// such as application test harnesses, while keeping implementation
// details in internal packages.
package eden

import (
	"context"

	"github.com/yacchi/eden-cli/internal/config"
)

// Config is the tool configuration store for the eden CLI.
// It provides access to all configuration values with layer-based resolution.
type Config = config.Store

// LoadConfig loads the tool configuration from all available sources.
// Sources are resolved in the following priority order:
//   - Command line arguments (highest)
//   - Environment variables (EDEN_*)
//   - .eden.yaml (project local)
//   - ~/.config/eden/config.yaml (user config)
//   - Defaults (lowest)
func LoadConfig(ctx context.Context) (*Config, error) {
	return config.Load(ctx)
}
