package docker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/release"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// containerPort はコンテナ内部で API が待ち受けるポート
//
// Cloud Run の慣例に合わせて固定し、ホスト側のポートだけを可変にする
const containerPort = 8000

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the app container with a resolved environment",
	Long: `Start the app API container in the background. The configuration
environment is resolved and injected into the container, so the same
variables the deployed service sees are available locally.

Examples:
  eden docker run -e local-docker
  eden docker run -e dev --port 8002
  eden docker run --tag 20260821-153005`,
	RunE: runDockerRun,
}

var (
	runPort int
	runName string
	runTag  string
)

func init() {
	runCmd.Flags().IntVar(&runPort, "port", 8001, "Host port to expose the API on")
	runCmd.Flags().StringVar(&runName, "name", "", "Container name (default: the app id)")
	runCmd.Flags().StringVar(&runTag, "tag", "", "Image tag to run (default: the tag on HEAD)")
}

func runDockerRun(c *cobra.Command, _ []string) error {
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

	envName, err := cmdutil.ResolveConfigEnv(cfg, dir, "docker-run")
	if err != nil {
		return err
	}

	opts := []envload.Option{
		envload.WithTask("docker-run"),
		envload.WithWorkDir(dir),
	}
	if quiet {
		opts = append(opts, envload.WithQuiet())
	}
	result, err := envload.Load(ctx, envName, opts...)
	if err != nil {
		return err
	}

	image, err := resolveRunImage(c, dir, app)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = app.ID
	}

	run := runner.New(runner.WithDir(dir))

	// 前回のコンテナが残っていても失敗させない
	silent := runner.New(runner.WithDir(dir),
		runner.WithStdout(io.Discard), runner.WithStderr(io.Discard))
	_ = silent.Run(ctx, "docker", "rm", "-f", name)

	args := []string{
		"run", "-d",
		"--name", name,
		"-p", fmt.Sprintf("%d:%d", runPort, containerPort),
		"-e", "CONFIG_ENV=" + result.Env(),
	}
	for _, v := range result.Vars() {
		args = append(args, "-e", v.Name+"="+v.Value)
	}
	args = append(args, image)

	if err := run.Run(ctx, "docker", args...); err != nil {
		return err
	}

	url := fmt.Sprintf("http://localhost:%d", runPort)
	if !quiet {
		ui.Success("Container %s running on %s", name, url)
	}

	if waitHealthy(ctx, url) {
		if !quiet {
			ui.Success("API is healthy")
		}
	} else {
		ui.Warning("API did not answer %s/health yet, it may still be starting", url)
	}
	return nil
}

// resolveRunImage は起動するイメージ参照を決める
//
// --tag 指定があればそれを、無ければ HEAD に付いたタグを使う。
// どちらも無い場合はレジストリイメージを特定できないのでエラー
func resolveRunImage(c *cobra.Command, dir string, app *manifest.App) (string, error) {
	projectID, err := release.RegistryProject(dir, app)
	if err != nil {
		return "", err
	}

	tag := runTag
	if tag == "" {
		gitRun := runner.New(runner.WithDir(dir), runner.WithStderr(io.Discard))
		tag, err = release.CurrentTag(c.Context(), gitRun)
		if err != nil {
			return "", err
		}
	}
	if tag == "" {
		return "", errors.New("no tagged image for HEAD: run 'eden build' first or pass --tag")
	}

	return release.ImageRef(release.DefaultRepository, projectID, app.ImageName(), tag), nil
}

// waitHealthy は /health が応答するまで短時間ポーリングする
func waitHealthy(ctx context.Context, baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Second):
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			return false
		}
		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}
