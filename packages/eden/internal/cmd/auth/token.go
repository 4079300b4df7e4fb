package auth

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/auth"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate a static test user token",
	Long: `Generate a JWT for the static test user of an environment.

The signing key is the jwt-secret-key secret of the environment, and
the environment must have CUSTOM_AUTH_ENABLED=true.

Examples:
  eden auth token -e dev
  eden auth token -e local-server --email alice@example.com`,
	RunE: runToken,
}

var tokenEmail string

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email address for the token subject (default: static test user)")
}

type tokenJSON struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	ExpiresAt string `json:"expires_at"`
}

func runToken(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	envName, err := cmdutil.ResolveConfigEnv(cfg, dir, "token")
	if err != nil {
		return err
	}

	token, err := auth.StaticTestUserToken(c.Context(), dir, envName, tokenEmail)
	if err != nil {
		return err
	}

	// スクリプトから token フィールドを読めるよう常に JSON で出力する
	return cmdutil.OutputJSONToStdout(tokenJSON{
		Token:     token.Value,
		Email:     token.Email,
		Provider:  token.Provider,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	}, cmdutil.JSONOptions(c))
}
