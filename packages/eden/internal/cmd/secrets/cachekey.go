package secrets

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var cacheKeyCmd = &cobra.Command{
	Use:   "cache-key",
	Short: "Cache the local vault key",
	Long: `Derive the vault key from a passphrase and cache it for this session.

The key is written under $XDG_RUNTIME_DIR so later commands can read
the vault without prompting again.`,
	RunE: runCacheKey,
}

func runCacheKey(c *cobra.Command, _ []string) error {
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
		return errors.Errorf("cache-key applies to the local vault only (configured manager: %s)", m.Type())
	}

	passphrase, err := ui.Password("Vault passphrase")
	if err != nil {
		return err
	}
	if passphrase == "" {
		return errors.New("empty passphrase")
	}

	if err := local.CacheKey(passphrase); err != nil {
		return err
	}

	if !cmdutil.Quiet(cfg) {
		ui.Success("Cached vault key at %s", local.CachedKeyPath())
	}
	return nil
}
