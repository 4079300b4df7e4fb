package auth

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/auth"
	"github.com/yacchi/eden-cli/internal/debug"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify a token and show its identity",
	Long: `Validate a JWT against the environment's signing key and print the
identity it carries.

Examples:
  eden auth verify -e dev eyJhbGciOi...
  eden auth verify --provider custom eyJhbGciOi...`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var verifyProvider string

func init() {
	verifyCmd.Flags().StringVar(&verifyProvider, "provider", "custom", "Auth provider (custom, firebase)")
}

type identityJSON struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	ExpiresAt string `json:"expires_at"`
}

func runVerify(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	// google マネージャが PROJECT_ID を参照できるよう、環境が
	// 指定されていれば解決して適用する
	if envName, err := cmdutil.ResolveConfigEnv(cfg, dir, ""); err == nil {
		result, err := envload.Load(c.Context(), envName,
			envload.WithWorkDir(dir), envload.WithQuiet())
		if err != nil {
			return err
		}
		if err := result.Apply(); err != nil {
			return err
		}
	} else {
		debug.Log("verify without config environment", "reason", err)
	}

	m, err := secrets.Open(dir)
	if err != nil {
		return err
	}
	signingKey, err := m.Get(c.Context(), auth.JWTSecretName)
	if err != nil {
		return err
	}

	provider, err := auth.ForName(verifyProvider, []byte(signingKey))
	if err != nil {
		return err
	}

	identity, err := provider.ValidateToken(c.Context(), args[0])
	if err != nil {
		return err
	}

	if cmdutil.WantJSON(cfg) {
		return cmdutil.OutputJSONToStdout(identityJSON{
			UID:       identity.UID,
			Email:     identity.Email,
			Name:      identity.Name,
			Provider:  identity.Provider,
			ExpiresAt: identity.ExpiresAt.Format(time.RFC3339),
		}, cmdutil.JSONOptions(c))
	}

	w := c.OutOrStdout()
	ui.Success("Token is valid")
	fmt.Fprintf(w, "UID:      %s\n", identity.UID)
	fmt.Fprintf(w, "Email:    %s\n", identity.Email)
	fmt.Fprintf(w, "Name:     %s\n", identity.Name)
	fmt.Fprintf(w, "Provider: %s\n", identity.Provider)
	fmt.Fprintf(w, "Expires:  %s\n", identity.ExpiresAt.Format(time.RFC3339))
	return nil
}
