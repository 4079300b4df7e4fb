package projects

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var consoleCmd = &cobra.Command{
	Use:   "console [env]",
	Short: "Open the GCP console for an environment",
	Long: `Open the Google Cloud console dashboard of the project registered
for the environment. Without an argument the configured environment
(--config-env / EDEN_CONFIG_ENV) is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConsole,
}

var consoleNoBrowser bool

func init() {
	consoleCmd.Flags().BoolVar(&consoleNoBrowser, "no-browser", false, "Print the URL instead of opening a browser")
}

func runConsole(c *cobra.Command, args []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	dir := cmdutil.AppDir(cfg)

	envName := ""
	if len(args) > 0 {
		envName = args[0]
	} else {
		envName, err = cmdutil.ResolveConfigEnv(cfg, dir, "")
		if err != nil {
			return err
		}
	}

	projectID, err := projects.Lookup(dir, envName)
	if err != nil {
		return envload.NewProjectError(err, envName)
	}

	url := fmt.Sprintf("https://console.cloud.google.com/home/dashboard?project=%s", projectID)
	if consoleNoBrowser {
		fmt.Fprintln(c.OutOrStdout(), url)
		return nil
	}
	return browser.OpenURL(url)
}
