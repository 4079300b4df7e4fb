package secrets

import (
	"github.com/spf13/cobra"
)

var SecretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage application secrets",
	Long: `Store and retrieve application secrets.

The backing store comes from config/app.yaml (secrets.manager):
an encrypted local vault (.secrets) or Google Secret Manager.`,
}

func init() {
	SecretsCmd.AddCommand(getCmd)
	SecretsCmd.AddCommand(setCmd)
	SecretsCmd.AddCommand(deleteCmd)
	SecretsCmd.AddCommand(listCmd)
	SecretsCmd.AddCommand(cacheKeyCmd)
	SecretsCmd.AddCommand(rotateKeyCmd)
}
