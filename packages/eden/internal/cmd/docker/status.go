package docker

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the app containers",
	RunE:  runDockerStatus,
}

type containerJSON struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
	Ports  string `json:"ports"`
}

func runDockerStatus(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	app, err := manifest.LoadApp(dir)
	if err != nil {
		return err
	}

	run := runner.New(runner.WithDir(dir))
	out, err := run.Output(c.Context(), "docker", "ps", "-a",
		"--filter", "name="+app.ID,
		"--format", "{{.Names}}\t{{.Image}}\t{{.Status}}\t{{.Ports}}")
	if err != nil {
		return err
	}

	var containers []containerJSON
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		row := containerJSON{Name: fields[0]}
		if len(fields) > 1 {
			row.Image = fields[1]
		}
		if len(fields) > 2 {
			row.Status = fields[2]
		}
		if len(fields) > 3 {
			row.Ports = fields[3]
		}
		containers = append(containers, row)
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(containers, cmdutil.JSONOptions(c))
	}

	if len(containers) == 0 {
		fmt.Fprintf(c.OutOrStdout(), "No containers found for %s.\n", app.ID)
		return nil
	}

	table := ui.NewTable("NAME", "IMAGE", "STATUS", "PORTS")
	for _, ct := range containers {
		table.AddRow(ct.Name, ct.Image, ct.Status, ct.Ports)
	}
	table.Render(c.OutOrStdout())
	return nil
}
