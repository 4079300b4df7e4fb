package env

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined environments",
	Long: `List configuration environments and where they are defined.

Environments come from the SDK built-ins and the app's
config/environments.yaml. App definitions override SDK definitions
variable by variable.`,
	RunE: runList,
}

type environmentJSON struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Vars   int    `json:"vars"`
}

func runList(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	sdk, err := manifest.SDKEnvironments()
	if err != nil {
		return err
	}
	app, err := manifest.AppEnvironments(dir)
	if err != nil {
		return err
	}
	merged, err := manifest.MergedEnvironments(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]environmentJSON, 0, len(names))
	for _, name := range names {
		_, inSDK := sdk[name]
		_, inApp := app[name]
		origin := "sdk"
		switch {
		case inSDK && inApp:
			origin = "both"
		case inApp:
			origin = "app"
		}
		entries = append(entries, environmentJSON{
			Name:   name,
			Origin: origin,
			Vars:   len(merged[name]),
		})
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(entries, cmdutil.JSONOptions(c))
	}

	table := ui.NewTable("NAME", "ORIGIN", "VARS")
	for _, e := range entries {
		table.AddRow(e.Name, e.Origin, strconv.Itoa(e.Vars))
	}
	table.Render(c.OutOrStdout())
	return nil
}
