// Package build はコンテナイメージのビルドパイプラインを実装する
package build

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/release"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// BuildCmd は Cloud Build でイメージをビルドするコマンド
var BuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build and push the app image with Cloud Build",
	Long: `Validate the git state, pick or create an image tag for HEAD, and
build the image with Cloud Build unless the registry already has it.

A commit that is already tagged and already has an image in the registry
is reused as is, so repeated builds of the same commit are cheap.

Examples:
  eden build
  eden build --force
  eden build --tag v1.0.0`,
	RunE: runBuild,
}

var (
	buildTag   string
	buildForce bool
)

func init() {
	BuildCmd.Flags().StringVar(&buildTag, "tag", "", "Use this tag instead of auto-detecting one")
	BuildCmd.Flags().BoolVar(&buildForce, "force", false, "Rebuild even if the image already exists")
}

type buildJSON struct {
	Image   string `json:"image"`
	Tag     string `json:"tag"`
	Project string `json:"project"`
	Reused  bool   `json:"reused"`
}

func runBuild(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	quiet := cmdutil.Quiet(cfg)

	dir := cmdutil.AppDir(cfg)
	app, err := manifest.LoadApp(dir)
	if err != nil {
		return err
	}

	run := runner.New(runner.WithDir(dir))

	if err := release.ValidateGitState(ctx, run, dir); err != nil {
		return err
	}

	projectID, err := release.RegistryProject(dir, app)
	if err != nil {
		return err
	}
	repository := cfg.Cloud().ImageRepository

	tag := buildTag
	if tag == "" {
		tag, err = release.CurrentTag(ctx, run)
		if err != nil {
			return err
		}
	}

	if tag != "" {
		image := release.ImageRef(repository, projectID, app.ImageName(), tag)
		if !buildForce && release.ImageExists(ctx, run, image) {
			if cmdutil.WantJSON(cfg) {
				return cmdutil.OutputJSONToStdout(buildJSON{
					Image:   image,
					Tag:     tag,
					Project: projectID,
					Reused:  true,
				}, cmdutil.JSONOptions(c))
			}
			if !quiet {
				ui.Success("Image %s already exists, nothing to build", image)
				ui.Info("Deploy it with 'eden deploy'.")
			}
			return nil
		}
	} else {
		tag, err = release.CreateTimestampTag(ctx, run)
		if err != nil {
			return err
		}
		if !quiet {
			ui.Info("Tagged HEAD as %s", tag)
		}
	}

	image := release.ImageRef(repository, projectID, app.ImageName(), tag)
	if !quiet {
		fmt.Fprintf(c.ErrOrStderr(), "Building %s\n", image)
	}
	if err := release.CloudBuild(ctx, run, projectID, image); err != nil {
		return err
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(buildJSON{
			Image:   image,
			Tag:     tag,
			Project: projectID,
		}, cmdutil.JSONOptions(c))
	}
	if !quiet {
		ui.Success("Built %s", image)
		ui.Info("Deploy it with 'eden deploy'.")
	}
	return nil
}
