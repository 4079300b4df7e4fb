package secrets

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List secret names",
	RunE:  runList,
}

type secretJSON struct {
	Name    string `json:"name"`
	Manager string `json:"manager"`
}

func runList(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}

	names, err := m.List(c.Context())
	if err != nil {
		return err
	}

	if cmdutil.WantJSON(cfg) {
		out := make([]secretJSON, 0, len(names))
		for _, name := range names {
			out = append(out, secretJSON{Name: name, Manager: m.Type()})
		}
		return cmdutil.OutputJSONToStdout(out, cmdutil.JSONOptions(c))
	}

	w := c.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(w, "No secrets stored (%s).\n", m.Type())
		return nil
	}
	fmt.Fprintf(w, "# Manager: %s\n", m.Type())
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}
