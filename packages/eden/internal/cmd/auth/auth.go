package auth

import (
	"github.com/spf13/cobra"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Issue and verify test authentication tokens",
}

func init() {
	AuthCmd.AddCommand(tokenCmd)
	AuthCmd.AddCommand(verifyCmd)
}
