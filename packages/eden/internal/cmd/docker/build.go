package docker

import (
	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the app image with the local docker daemon",
	RunE:  runDockerBuild,
}

func runDockerBuild(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	app, err := manifest.LoadApp(dir)
	if err != nil {
		return err
	}

	image := localImage(app.ImageName())
	run := runner.New(runner.WithDir(dir))
	if err := run.Run(c.Context(), "docker", "build", "-t", image, "."); err != nil {
		return err
	}

	if !cmdutil.Quiet(cfg) {
		ui.Success("Built %s", image)
	}
	return nil
}
