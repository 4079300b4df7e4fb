package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacchi/eden-cli/internal/config"
	"github.com/yacchi/eden-cli/internal/debug"
	"github.com/yacchi/eden-cli/internal/ui"
	authcmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/auth"
	buildcmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/build"
	configcmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/config"
	deploycmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/deploy"
	dockercmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/docker"
	envcmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/env"
	modelscmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/models"
	projectscmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/projects"
	secretscmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/secrets"
	testcmd "github.com/yacchi/eden-cli/packages/eden/internal/cmd/test"
	"github.com/yacchi/jubako"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "eden",
	Short: "eden - layered environment configuration for multi-environment apps",
	Long: `eden resolves environment variables from layered configuration sources
and drives the build, deploy and test workflow around them.

Variables are merged from process environment, test/task configuration,
app and SDK environment files and an optional base layer, with the origin
of every value tracked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// デバッグモードの有効化
		if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
			debug.Enable()
		}

		ctx := cmd.Context()
		cfg, err := config.Load(ctx)
		if err != nil {
			return err
		}

		// カラー設定
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			ui.SetColorEnabled(false)
		} else {
			switch strings.ToLower(cfg.Display().Color) {
			case "never":
				ui.SetColorEnabled(false)
			case "always":
				ui.SetColorEnabled(true)
			}
		}
		ui.SetHyperlinkEnabled(cfg.Display().Hyperlink)

		// グローバルフラグを取得してArgsレイヤーに適用
		var setOptions []jubako.SetOption

		if env, _ := cmd.Flags().GetString("config-env"); env != "" {
			setOptions = append(setOptions, jubako.String(config.PathConfigEnv, env))
		}

		if output, _ := cmd.Flags().GetString("output"); output != "" {
			setOptions = append(setOptions, jubako.String(config.PathDisplayOutput, output))
		}

		if len(setOptions) > 0 {
			if err := cfg.SetFlagsLayer(setOptions); err != nil {
				return err
			}
		}

		// bool フラグは SetOption コンストラクタが無いので直接 Args レイヤーへ
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			if err := cfg.SetToLayer(config.LayerArgs, "core.quiet", true); err != nil {
				return err
			}
		}

		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// グローバルフラグ
	rootCmd.PersistentFlags().StringP("config-env", "e", "", "Configuration environment to use")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (text, json)")
	rootCmd.PersistentFlags().String("jq", "", "Filter JSON output using a jq expression")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress the resolution report")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// サブコマンド登録
	rootCmd.AddCommand(authcmd.AuthCmd)
	rootCmd.AddCommand(buildcmd.BuildCmd)
	rootCmd.AddCommand(configcmd.ConfigCmd)
	rootCmd.AddCommand(deploycmd.DeployCmd)
	rootCmd.AddCommand(deploycmd.ReleaseCmd)
	rootCmd.AddCommand(dockercmd.DockerCmd)
	rootCmd.AddCommand(envcmd.EnvCmd)
	rootCmd.AddCommand(modelscmd.ModelsCmd)
	rootCmd.AddCommand(projectscmd.ProjectsCmd)
	rootCmd.AddCommand(secretscmd.SecretsCmd)
	rootCmd.AddCommand(testcmd.TestCmd)
	rootCmd.AddCommand(versionCmd)
}
