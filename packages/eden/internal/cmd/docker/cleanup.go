package docker

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove the app container and the locally built image",
	RunE:  runDockerCleanup,
}

var cleanupForce bool

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupForce, "force", "f", false, "Skip the confirmation prompt")
}

func runDockerCleanup(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	app, err := manifest.LoadApp(dir)
	if err != nil {
		return err
	}

	name := app.ID
	image := localImage(app.ImageName())

	if !cleanupForce {
		ok, err := ui.Confirm(fmt.Sprintf("Remove container %q and image %q?", name, image), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	// 存在しないリソースの削除は失敗扱いにしない
	silent := runner.New(runner.WithDir(dir),
		runner.WithStdout(io.Discard), runner.WithStderr(io.Discard))
	_ = silent.Run(ctx, "docker", "rm", "-f", name)
	_ = silent.Run(ctx, "docker", "rmi", image)

	if !cmdutil.Quiet(cfg) {
		ui.Success("Cleaned up container %s and image %s", name, image)
	}
	return nil
}
