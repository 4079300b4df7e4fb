// Package test はテストスイートの実行コマンドを実装する
package test

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
	"github.com/yacchi/eden-cli/internal/settings"
	"github.com/yacchi/eden-cli/internal/ui"
	"github.com/yacchi/eden-cli/packages/eden/internal/cmdutil"
)

// TestCmd は tests.yaml のスイート定義に従ってテストを実行するコマンド
var TestCmd = &cobra.Command{
	Use:   "test <suite>",
	Short: "Run a test suite with its configuration environment",
	Long: `Run the go test packages of a suite defined in config/tests.yaml with
the suite's configuration environment resolved and injected.

The environment comes from -e or EDEN_CONFIG_ENV when set, otherwise
from the suite's env entry. Suites with TEST_API_MODE=REMOTE get a
TEST_API_URL derived from the target deployment.

Examples:
  eden test unit
  eden test api -e local-server
  eden test unit -k TestResolve -v`,
	Args: cobra.ExactArgs(1),
	RunE: runTest,
}

var (
	testFilter  string
	testVerbose bool
)

func init() {
	TestCmd.Flags().StringVarP(&testFilter, "filter", "k", "", "Run only tests matching this pattern (go test -run)")
	TestCmd.Flags().BoolVarP(&testVerbose, "verbose", "v", false, "Verbose test output")
}

func runTest(c *cobra.Command, args []string) error {
	ctx := c.Context()
	suite := args[0]

	cfg, err := cmdutil.GetConfig(c)
	if err != nil {
		return err
	}
	quiet := cmdutil.Quiet(cfg)

	dir := cmdutil.AppDir(cfg)
	tests, err := manifest.LoadTests(dir)
	if err != nil {
		return err
	}
	mode, err := tests.Mode(suite)
	if err != nil {
		return err
	}

	envName := cfg.Core().ConfigEnv
	if envName == "" {
		envName = mode.Env
	}
	if envName == "" {
		return errors.Errorf("no configuration environment for suite %q: pass -e or set env in %s",
			suite, manifest.TestsPath(dir))
	}

	opts := []envload.Option{
		envload.WithTestMode(suite),
		envload.WithWorkDir(dir),
	}
	if quiet {
		opts = append(opts, envload.WithQuiet())
	}
	result, err := envload.Load(ctx, envName, opts...)
	if err != nil {
		return err
	}

	env := append(result.Environ(), "CONFIG_ENV="+result.Env())

	// リモート API を対象にするスイートは接続先 URL を導出して渡す
	if result.Value("TEST_API_MODE") == "REMOTE" {
		if err := settings.ValidateRemoteAPI(result, suite); err != nil {
			return err
		}
		run := runner.New(runner.WithDir(dir))
		url, err := settings.RemoteAPIURL(ctx, run, result)
		if err != nil {
			return err
		}
		env = append(env, "TEST_API_URL="+url)
		if !quiet {
			ui.Info("Testing against %s", url)
		}
	}

	goArgs := []string{"test"}
	if mode.OmitIntegration {
		goArgs = append(goArgs, "-short")
	}
	if testFilter != "" {
		goArgs = append(goArgs, "-run", testFilter)
	}
	if testVerbose {
		goArgs = append(goArgs, "-v")
	}
	paths := mode.Paths
	if len(paths) == 0 {
		paths = []string{"./..."}
	}
	goArgs = append(goArgs, paths...)

	run := runner.New(runner.WithDir(dir), runner.WithEnv(env))
	if err := run.Run(ctx, "go", goArgs...); err != nil {
		return err
	}

	if !quiet {
		ui.Success("Suite %s passed", suite)
	}
	return nil
}
