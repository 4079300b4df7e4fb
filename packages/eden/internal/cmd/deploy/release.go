package deploy

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/settings"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// ReleaseCmd はリリース情報サブコマンドの親コマンド
var ReleaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Inspect deployed releases",
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployed Cloud Run revision of an environment",
	Long: `Show the Cloud Run service URL and the latest ready revision for the
configuration environment.

Examples:
  eden release status -e dev
  eden release status --target prod -o json --jq .url`,
	RunE: runReleaseStatus,
}

var statusTarget string

func init() {
	statusCmd.Flags().StringVar(&statusTarget, "target", "", "Environment to inspect (default: the configuration environment)")
	ReleaseCmd.AddCommand(statusCmd)
}

type releaseStatusJSON struct {
	Target   string `json:"target"`
	Service  string `json:"service"`
	Project  string `json:"project"`
	URL      string `json:"url"`
	Revision string `json:"revision"`
}

func runReleaseStatus(c *cobra.Command, _ []string) error {
	ctx := c.Context()

	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	target := statusTarget
	if target == "" {
		target, err = cmdutil.ResolveConfigEnv(cfg, dir, "")
		if err != nil {
			return err
		}
	}

	st, err := settings.Load(dir, target)
	if err != nil {
		return err
	}
	if st.ProjectID == "" {
		return errors.Errorf("environment %q has no project_id, nothing is deployed for it", target)
	}
	if st.AppID == "" {
		return errors.New("config/app.yaml is required to determine the service name")
	}

	service := st.AppID + "-api"
	region := cfg.Cloud().Region

	run := runner.New(runner.WithDir(dir))
	out, err := run.Output(ctx, "gcloud", "run", "services", "describe", service,
		"--project", st.ProjectID,
		"--region", region,
		"--format=value(status.url,status.latestReadyRevisionName)")
	if err != nil {
		return errors.Wrapf(err, "describe Cloud Run service %s", service)
	}

	status := releaseStatusJSON{
		Target:  target,
		Service: service,
		Project: st.ProjectID,
	}
	fields := strings.SplitN(out, "\t", 2)
	if len(fields) > 0 {
		status.URL = strings.TrimSpace(fields[0])
	}
	if len(fields) > 1 {
		status.Revision = strings.TrimSpace(fields[1])
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(status, cmdutil.JSONOptions(c))
	}

	w := c.OutOrStdout()
	fmt.Fprintf(w, "Target:   %s\n", ui.Bold(status.Target))
	fmt.Fprintf(w, "Service:  %s\n", status.Service)
	fmt.Fprintf(w, "Project:  %s\n", status.Project)
	fmt.Fprintf(w, "URL:      %s\n", status.URL)
	fmt.Fprintf(w, "Revision: %s\n", status.Revision)
	return nil
}
