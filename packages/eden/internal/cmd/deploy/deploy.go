// Package deploy は Cloud Run へのデプロイとリリース状態の確認を実装する
package deploy

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/release"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/settings"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// DeployCmd はビルド済みイメージを対象環境の Cloud Run へ配備するコマンド
var DeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the app image to Cloud Run",
	Long: `Deploy a built image to the Cloud Run service of a target environment.

The image is taken from the registry project configured in config/app.yaml,
the service runs in the project registered for the target environment.

Examples:
  eden deploy --target dev
  eden deploy --target prod --tag 20260821-153005`,
	RunE: runDeploy,
}

var (
	deployTarget string
	deployTag    string
)

func init() {
	DeployCmd.Flags().StringVar(&deployTarget, "target", "", "Target environment to deploy to")
	DeployCmd.Flags().StringVar(&deployTag, "tag", "", "Image tag to deploy (default: the latest git tag)")
	_ = DeployCmd.MarkFlagRequired("target")
}

type deployJSON struct {
	Target  string `json:"target"`
	Service string `json:"service"`
	Project string `json:"project"`
	Image   string `json:"image"`
	Tag     string `json:"tag"`
	URL     string `json:"url"`
}

func runDeploy(c *cobra.Command, _ []string) error {
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

	// 対象環境の検証とデプロイ先プロジェクトの解決
	st, err := settings.Load(dir, deployTarget)
	if err != nil {
		return err
	}
	if st.ProjectID == "" {
		return errors.Errorf("environment %q has no project_id, cannot deploy", deployTarget)
	}

	run := runner.New(runner.WithDir(dir))

	tag := deployTag
	if tag == "" {
		gitRun := runner.New(runner.WithDir(dir), runner.WithStderr(io.Discard))
		tag = release.LatestTag(ctx, gitRun)
	}
	if tag == "" {
		return errors.New("no release tag found: run 'eden build' first or pass --tag")
	}

	registryProject, err := release.RegistryProject(dir, app)
	if err != nil {
		return err
	}
	image := release.ImageRef(cfg.Cloud().ImageRepository, registryProject, app.ImageName(), tag)

	if !release.ImageExists(ctx, run, image) {
		return errors.Errorf("image not found in registry: %s (run 'eden build' first)", image)
	}

	service := app.ID + "-api"
	region := cfg.Cloud().Region
	if !quiet {
		ui.Info("Deploying %s to %s (%s)", image, service, st.ProjectID)
	}
	if err := release.DeployCloudRun(ctx, run, st.ProjectID, service, image, region); err != nil {
		return err
	}

	url, err := settings.CloudRunServiceURL(ctx, run, st.ProjectID, service, region)
	if err != nil {
		return err
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(deployJSON{
			Target:  deployTarget,
			Service: service,
			Project: st.ProjectID,
			Image:   image,
			Tag:     tag,
			URL:     url,
		}, cmdutil.JSONOptions(c))
	}
	if !quiet {
		ui.Success("Deployed %s to %s", tag, deployTarget)
		ui.Info("Service URL: %s", url)
	}
	return nil
}
