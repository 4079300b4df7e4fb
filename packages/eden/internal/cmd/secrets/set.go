package secrets

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var setCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret",
	Long: `Store a secret in the configured secrets manager.

When the value is omitted it is read from an interactive prompt, which
keeps it out of the shell history.

Examples:
  eden secrets set jwt-secret-key
  eden secrets set gemini-api-key AIza...`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSet,
}

func runSet(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	name := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		value, err = ui.Password("Value for " + name)
		if err != nil {
			return err
		}
	}
	if value == "" {
		return errors.New("empty secret value")
	}

	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}
	if err := m.Set(c.Context(), name, value); err != nil {
		return err
	}

	if !cmdutil.Quiet(cfg) {
		ui.Success("Stored secret %q (%s)", name, m.Type())
	}
	return nil
}
