// Package release はコンテナイメージのビルドとデプロイの段取りを扱う
//
// git の状態検証、イメージタグの決定、レジストリ上のイメージ確認など、
// build / deploy / docker コマンドが共有するロジックを集める。
package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/runner"
)

// DefaultRepository は既定のイメージレジストリホスト
const DefaultRepository = "gcr.io"

// tagFormat はタイムスタンプタグの形式（例: 20260821-153005）
const tagFormat = "20060102-150405"

// ErrDirtyWorkTree は未コミットの変更が残っていることを表す
var ErrDirtyWorkTree = errors.New("working directory has uncommitted changes")

// ErrUnpushedCommits はリモートに push されていないコミットがあることを表す
var ErrUnpushedCommits = errors.New("local commits not pushed to remote")

// ValidateGitState はビルド前提となる git の状態を検証する
//
// リポジトリであること、リモートが設定されていること、作業ツリーが
// クリーンであること、上流に未 push のコミットが無いことを確認する
func ValidateGitState(ctx context.Context, run *runner.Runner, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return errors.Wrap(err, "not a git repository")
	}

	remotes, err := run.Output(ctx, "git", "remote")
	if err != nil {
		return err
	}
	if remotes == "" {
		return errors.New("no remote repository configured")
	}

	status, err := run.Output(ctx, "git", "status", "--porcelain")
	if err != nil {
		return err
	}
	if status != "" {
		return ErrDirtyWorkTree
	}

	unpushed, err := run.Output(ctx, "git", "log", "--oneline", "@{u}..HEAD")
	if err != nil {
		return errors.Wrap(err, "check upstream (is the current branch tracking a remote?)")
	}
	if unpushed != "" {
		return ErrUnpushedCommits
	}

	return nil
}

// CurrentTag は HEAD を含む最初の git タグを返す（無ければ空文字列）
func CurrentTag(ctx context.Context, run *runner.Runner) (string, error) {
	commit, err := run.Output(ctx, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	tags, err := run.Output(ctx, "git", "tag", "--contains", commit)
	if err != nil {
		return "", err
	}
	if tags == "" {
		return "", nil
	}
	tag, _, _ := strings.Cut(tags, "\n")
	return strings.TrimSpace(tag), nil
}

// CreateTimestampTag は現在時刻のタグを作成してリモートへ push する
func CreateTimestampTag(ctx context.Context, run *runner.Runner) (string, error) {
	tag := time.Now().Format(tagFormat)
	if err := run.Run(ctx, "git", "tag", tag); err != nil {
		return "", err
	}
	if err := run.Run(ctx, "git", "push", "origin", tag); err != nil {
		return "", err
	}
	return tag, nil
}

// LatestTag は最新の git タグを返す（describe 相当、無ければ空文字列）
func LatestTag(ctx context.Context, run *runner.Runner) string {
	tag, err := run.Output(ctx, "git", "describe", "--tags", "--abbrev=0")
	if err != nil {
		return ""
	}
	return tag
}

// RegistryProject はイメージレジストリのプロジェクト ID を解決する
//
// app.yaml の registry.project をまず .projects のエイリアスとして
// 引き、登録が無ければリテラルなプロジェクト ID として扱う
func RegistryProject(dir string, app *manifest.App) (string, error) {
	ref := app.Registry.Project
	if ref == "" {
		return "", errors.Errorf("registry.project not set in %s", manifest.AppPath(dir))
	}
	id, err := projects.Lookup(dir, ref)
	switch {
	case err == nil:
		return id, nil
	case errors.Is(err, projects.ErrFileNotFound), errors.Is(err, projects.ErrNotRegistered):
		return ref, nil
	default:
		return "", err
	}
}

// ImageRef は完全なイメージ参照を組み立てる
func ImageRef(repository, projectID, image, tag string) string {
	if repository == "" {
		repository = DefaultRepository
	}
	return fmt.Sprintf("%s/%s/%s:%s", repository, projectID, image, tag)
}

// ImageExists はレジストリにイメージが存在するか確認する
func ImageExists(ctx context.Context, run *runner.Runner, image string) bool {
	_, err := run.Output(ctx, "gcloud", "container", "images", "describe", image)
	return err == nil
}

// CloudBuild は gcloud builds submit でイメージをビルドして push する
func CloudBuild(ctx context.Context, run *runner.Runner, projectID, image string) error {
	return run.Run(ctx, "gcloud", "builds", "submit",
		"--project="+projectID,
		"--tag", image,
		".")
}

// DeployCloudRun は gcloud run deploy でサービスを更新し、URL を返す
func DeployCloudRun(ctx context.Context, run *runner.Runner, projectID, service, image, region string) error {
	return run.Run(ctx, "gcloud", "run", "deploy", service,
		"--project", projectID,
		"--image", image,
		"--region", region,
		"--platform", "managed",
		"--quiet")
}
