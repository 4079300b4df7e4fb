// Package docker はアプリコンテナをローカルで扱うサブコマンド群
package docker

import (
	"github.com/spf13/cobra"
)

// DockerCmd は docker サブコマンドの親コマンド
var DockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Build and run the app container locally",
	Long: `Build the app image with the local docker daemon and run it with a
resolved configuration environment injected.

Examples:
  eden docker build
  eden docker run -e local-docker
  eden docker status
  eden docker cleanup --force`,
}

func init() {
	DockerCmd.AddCommand(buildCmd)
	DockerCmd.AddCommand(runCmd)
	DockerCmd.AddCommand(statusCmd)
	DockerCmd.AddCommand(cleanupCmd)
}

// localImage はローカルビルド時のイメージ参照を返す
func localImage(imageName string) string {
	return imageName + ":local"
}
