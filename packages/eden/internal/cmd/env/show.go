package env

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Resolve and display an environment",
	Long: `Resolve the variables of a configuration environment and show which
layer each value came from.

Examples:
  eden env show -e dev
  eden env show -e unit-testing --test-mode unit
  eden env show -e dev --task deploy -o json --jq '.variables[].name'`,
	RunE: runShow,
}

var (
	showTask        string
	showTestMode    string
	showShowSecrets bool
)

func init() {
	showCmd.Flags().StringVar(&showTask, "task", "", "Resolve with a task-config layer for this task")
	showCmd.Flags().StringVar(&showTestMode, "test-mode", "", "Resolve with a test-config layer for this test mode")
	showCmd.Flags().BoolVar(&showShowSecrets, "show-secrets", false, "Print secret values instead of masking them")
}

// variableJSON は env show / env diff の JSON 出力用
type variableJSON struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
	Secret bool   `json:"secret"`
}

type showJSON struct {
	Environment string         `json:"environment"`
	Task        string         `json:"task,omitempty"`
	TestMode    string         `json:"test_mode,omitempty"`
	Variables   []variableJSON `json:"variables"`
}

func runShow(c *cobra.Command, _ []string) error {
	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}

	dir := cmdutil.AppDir(cfg)
	envName, err := cmdutil.ResolveConfigEnv(cfg, dir, "")
	if err != nil {
		return err
	}

	opts := []envload.Option{
		envload.WithWorkDir(dir),
		envload.WithQuiet(),
	}
	if showTask != "" {
		opts = append(opts, envload.WithTask(showTask))
	}
	if showTestMode != "" {
		opts = append(opts, envload.WithTestMode(showTestMode))
	}

	result, err := envload.Load(c.Context(), envName, opts...)
	if err != nil {
		return err
	}

	if cmdutil.WantJSON(cfg) {
		return outputShowJSON(c, result)
	}
	return renderShow(c, result)
}

func maskValue(v envload.Variable, showSecrets bool) string {
	if v.Secret() && !showSecrets {
		return "********"
	}
	return v.Value
}

func outputShowJSON(c *cobra.Command, result *envload.Result) error {
	out := showJSON{
		Environment: result.Env(),
		Task:        result.Task(),
		TestMode:    result.TestMode(),
	}
	for _, v := range result.Vars() {
		out.Variables = append(out.Variables, variableJSON{
			Name:   v.Name,
			Value:  maskValue(v, showShowSecrets),
			Source: v.Source,
			Secret: v.Secret(),
		})
	}
	return cmdutil.OutputJSONToStdout(out, cmdutil.JSONOptions(c))
}

func renderShow(c *cobra.Command, result *envload.Result) error {
	w := c.OutOrStdout()

	fmt.Fprintf(w, "Environment: %s\n", ui.Bold(result.Env()))
	if result.Task() != "" {
		fmt.Fprintf(w, "Task:        %s\n", result.Task())
	}
	if result.TestMode() != "" {
		fmt.Fprintf(w, "Test mode:   %s\n", result.TestMode())
	}
	fmt.Fprintln(w)

	table := ui.NewTable("NAME", "VALUE", "SOURCE")
	for _, v := range result.Vars() {
		table.AddRow(v.Name, maskValue(v, showShowSecrets), ui.SourceColor(v.Source))
	}
	table.Render(w)

	return nil
}
