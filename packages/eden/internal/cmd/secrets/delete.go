package secrets

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a secret",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Delete without confirmation")
}

func runDelete(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	name := args[0]
	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}

	if !deleteForce {
		ok, err := ui.Confirm(fmt.Sprintf("Delete secret %q (%s)?", name, m.Type()), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := m.Delete(c.Context(), name); err != nil {
		return err
	}

	if !cmdutil.Quiet(cfg) {
		ui.Success("Deleted secret %q", name)
	}
	return nil
}
