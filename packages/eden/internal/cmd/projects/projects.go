package projects

import (
	"github.com/spf13/cobra"
)

var ProjectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage GCP project registrations",
	Long:  "Manage the .projects file mapping environments to GCP project ids.",
}

func init() {
	ProjectsCmd.AddCommand(registerCmd)
	ProjectsCmd.AddCommand(listCmd)
	ProjectsCmd.AddCommand(consoleCmd)
}
