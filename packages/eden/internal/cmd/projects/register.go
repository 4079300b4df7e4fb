package projects

import (
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var registerCmd = &cobra.Command{
	Use:   "register <env> <project-id>",
	Short: "Register a project id for an environment",
	Long: `Write an environment to project-id mapping into .projects.

The file is created with a header comment when missing, and .gitignore
is updated so the mapping stays out of version control.

Examples:
  eden projects register dev my-dev-project
  eden projects register prod my-prod-project`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

func runRegister(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	result, err := projects.Register(dir, args[0], args[1])
	if err != nil {
		return err
	}

	if cmdutil.Quiet(cfg) {
		return nil
	}
	if result.Created {
		ui.Success("Created %s", projects.Path(dir))
	}
	ui.Success("Registered %s=%s", args[0], args[1])
	if result.GitignoreUpdated {
		ui.Info("Added .projects to .gitignore")
	}
	return nil
}
