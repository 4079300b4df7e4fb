package secrets

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get a secret",
	Long: `Get a secret from the configured secrets manager.

The value is masked unless --show is given.

Examples:
  eden secrets get jwt-secret-key
  eden secrets get jwt-secret-key --show`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getShowValue bool

func init() {
	getCmd.Flags().BoolVar(&getShowValue, "show", false, "Print the secret value")
}

func runGet(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}

	value, err := m.Get(c.Context(), args[0])
	if err != nil {
		return err
	}

	if getShowValue {
		fmt.Fprintln(c.OutOrStdout(), value)
		return nil
	}
	fmt.Fprintf(c.OutOrStdout(), "%s: ******** (%d bytes, use --show to print)\n", args[0], len(value))
	return nil
}
