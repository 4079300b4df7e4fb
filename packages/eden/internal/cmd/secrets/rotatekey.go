package secrets

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var rotateKeyCmd = &cobra.Command{
	Use:   "rotate-key",
	Short: "Re-encrypt the local vault with a new passphrase",
	RunE:  runRotateKey,
}

func runRotateKey(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}
	local, ok := m.(*secrets.LocalManager)
	if !ok {
		return errors.Errorf("rotate-key applies to the local vault only (configured manager: %s)", m.Type())
	}

	oldPassphrase, err := ui.Password("Current passphrase")
	if err != nil {
		return err
	}
	newPassphrase, err := ui.Password("New passphrase")
	if err != nil {
		return err
	}
	confirm, err := ui.Password("Confirm new passphrase")
	if err != nil {
		return err
	}
	if newPassphrase == "" {
		return errors.New("empty passphrase")
	}
	if newPassphrase != confirm {
		return errors.New("passphrases do not match")
	}

	if err := local.RotateKey(c.Context(), oldPassphrase, newPassphrase); err != nil {
		return err
	}

	if !cmdutil.Quiet(cfg) {
		ui.Success("Vault re-encrypted and key cache updated")
	}
	return nil
}
