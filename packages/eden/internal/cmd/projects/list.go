package projects

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered project ids",
	RunE:  runList,
}

type projectJSON struct {
	Env       string `json:"env"`
	ProjectID string `json:"project_id"`
}

func runList(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	entries, err := projects.List(dir)
	if err != nil {
		if errors.Is(err, projects.ErrFileNotFound) {
			fmt.Fprintln(c.OutOrStdout(), "No .projects file. Register one with 'eden projects register <env> <project-id>'.")
			return nil
		}
		return err
	}

	if cmdutil.WantJSON(cfg) {
		out := make([]projectJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, projectJSON{Env: e.Env, ProjectID: e.ProjectID})
		}
		return cmdutil.OutputJSONToStdout(out, cmdutil.JSONOptions(c))
	}

	table := ui.NewTable("ENV", "PROJECT")
	for _, e := range entries {
		table.AddRow(e.Env, e.ProjectID)
	}
	table.Render(c.OutOrStdout())
	return nil
}
