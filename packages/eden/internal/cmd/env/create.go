package env

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new environment",
	Long: `Add an environment to config/environments.yaml.

With --project-id the GCP project is registered in .projects at the
same time, making the environment usable with $.projects references.

Examples:
  eden env create staging --project-id my-staging-project
  eden env create local-test`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var createProjectID string

func init() {
	createCmd.Flags().StringVar(&createProjectID, "project-id", "", "GCP project id to register for this environment")
}

func validEnvName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

func runCreate(c *cobra.Command, args []string) error {
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if !validEnvName(name) {
		return errors.Errorf("invalid environment name %q: use lowercase letters, numbers, hyphens and underscores", args[0])
	}

	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	envs, err := manifest.AppEnvironments(dir)
	if err != nil {
		return err
	}
	if _, ok := envs[name]; ok {
		return errors.Errorf("environment %q already exists in %s", name, manifest.AppEnvironmentsPath(dir))
	}

	vars := map[string]any{}
	if createProjectID != "" {
		vars["PROJECT_ID"] = "$.projects." + name
	}
	envs[name] = vars

	if err := manifest.WriteAppEnvironments(dir, envs); err != nil {
		return err
	}

	quiet := cmdutil.Quiet(cfg)
	if !quiet {
		ui.Success("Added environment %q to %s", name, manifest.AppEnvironmentsPath(dir))
	}

	if createProjectID != "" {
		reg, err := projects.Register(dir, name, createProjectID)
		if err != nil {
			return err
		}
		if !quiet {
			if reg.Created {
				ui.Success("Created %s with project id for %s", projects.Path(dir), name)
			} else {
				ui.Success("Registered project id for %s in %s", name, projects.Path(dir))
			}
			if reg.GitignoreUpdated {
				ui.Info("Added .projects to .gitignore")
			}
		}
	}

	return nil
}
