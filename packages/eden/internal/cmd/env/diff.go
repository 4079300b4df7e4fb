package env

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var diffCmd = &cobra.Command{
	Use:   "diff <env-a> <env-b>",
	Short: "Compare two resolved environments",
	Long: `Resolve two environments and show the variables that differ.

Examples:
  eden env diff dev prod
  eden env diff dev prod -o json`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

var diffShowSecrets bool

func init() {
	diffCmd.Flags().BoolVar(&diffShowSecrets, "show-secrets", false, "Print secret values instead of masking them")
}

type diffEntryJSON struct {
	Name   string `json:"name"`
	A      string `json:"a,omitempty"`
	B      string `json:"b,omitempty"`
	Status string `json:"status"`
}

type diffJSON struct {
	EnvA    string          `json:"env_a"`
	EnvB    string          `json:"env_b"`
	Entries []diffEntryJSON `json:"entries"`
}

func runDiff(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	resultA, err := envload.Load(c.Context(), args[0],
		envload.WithWorkDir(dir), envload.WithQuiet())
	if err != nil {
		return err
	}
	resultB, err := envload.Load(c.Context(), args[1],
		envload.WithWorkDir(dir), envload.WithQuiet())
	if err != nil {
		return err
	}

	names := map[string]struct{}{}
	for _, v := range resultA.Vars() {
		names[v.Name] = struct{}{}
	}
	for _, v := range resultB.Vars() {
		names[v.Name] = struct{}{}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var entries []diffEntryJSON
	for _, name := range sorted {
		va, okA := resultA.Get(name)
		vb, okB := resultB.Get(name)
		switch {
		case okA && !okB:
			entries = append(entries, diffEntryJSON{
				Name:   name,
				A:      maskValue(va, diffShowSecrets),
				Status: "only-a",
			})
		case !okA && okB:
			entries = append(entries, diffEntryJSON{
				Name:   name,
				B:      maskValue(vb, diffShowSecrets),
				Status: "only-b",
			})
		case va.Value != vb.Value:
			entries = append(entries, diffEntryJSON{
				Name:   name,
				A:      maskValue(va, diffShowSecrets),
				B:      maskValue(vb, diffShowSecrets),
				Status: "changed",
			})
		}
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(diffJSON{
			EnvA:    resultA.Env(),
			EnvB:    resultB.Env(),
			Entries: entries,
		}, cmdutil.JSONOptions(c))
	}

	w := c.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(w, "Environments %s and %s resolve to the same variables.\n", args[0], args[1])
		return nil
	}

	table := ui.NewTable("NAME", args[0], args[1])
	for _, e := range entries {
		a := e.A
		b := e.B
		switch e.Status {
		case "only-a":
			b = ui.Gray("(unset)")
		case "only-b":
			a = ui.Gray("(unset)")
		}
		table.AddRow(e.Name, a, b)
	}
	table.Render(w)
	return nil
}
