package cmdutil

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/config"
	"github.com/yacchi/eden-cli/internal/manifest"
)

// GetConfig loads the shared tool configuration store.
func GetConfig(c *cobra.Command) (*config.Store, error) {
	cfg, err := config.Load(c.Context())
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// AppDir returns the application config root. The core.app_dir setting
// overrides the working directory.
func AppDir(cfg *config.Store) string {
	if dir := cfg.Core().AppDir; dir != "" {
		return dir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// ResolveConfigEnv determines the configuration environment for a command.
// Priority: --config-env flag / EDEN_CONFIG_ENV / config files (all merged in
// the store), then the task default from config/tasks.yaml.
func ResolveConfigEnv(cfg *config.Store, dir, taskName string) (string, error) {
	if env := cfg.Core().ConfigEnv; env != "" {
		return env, nil
	}

	if taskName != "" {
		tasks, err := manifest.LoadTasks(dir)
		if err != nil {
			return "", err
		}
		if env := tasks.DefaultEnv(taskName); env != "" {
			return env, nil
		}
	}

	return "", errors.New("no config environment specified: pass --config-env or set EDEN_CONFIG_ENV")
}

// JSONOptions builds JSON output options from the global --jq flag.
func JSONOptions(c *cobra.Command) JSONOutputOptions {
	jqExpr, _ := c.Flags().GetString("jq")
	return JSONOutputOptions{JQFilter: jqExpr, Pretty: true}
}

// WantJSON reports whether the resolved output format is JSON.
func WantJSON(cfg *config.Store) bool {
	return cfg.Display().Output == "json"
}

// Quiet reports whether the quiet flag or setting is active.
func Quiet(cfg *config.Store) bool {
	return cfg.Core().Quiet
}
