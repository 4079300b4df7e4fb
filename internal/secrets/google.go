package secrets

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/yacchi/eden-cli/internal/runner"
)

// GoogleManager は gcloud CLI 経由で Google Secret Manager を操作する
type GoogleManager struct {
	projectID string
	run       *runner.Runner
}

// NewGoogle は GoogleManager を作成する
func NewGoogle(projectID string, run *runner.Runner) *GoogleManager {
	if run == nil {
		run = runner.New()
	}
	return &GoogleManager{projectID: projectID, run: run}
}

// Type はマネージャ種別を返す
func (m *GoogleManager) Type() string {
	return "google"
}

// ProjectID は操作対象の GCP プロジェクト ID を返す
func (m *GoogleManager) ProjectID() string {
	return m.projectID
}

func isGcloudNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NOT_FOUND") || strings.Contains(msg, "not found")
}

// Get は最新バージョンのシークレット値を取得する
func (m *GoogleManager) Get(ctx context.Context, name string) (string, error) {
	out, err := m.run.Output(ctx, "gcloud",
		"secrets", "versions", "access", "latest",
		"--secret", name,
		"--project", m.projectID,
	)
	if err != nil {
		if isGcloudNotFound(err) {
			return "", errors.Wrapf(ErrNotFound, "google secret %q (project %s)", name, m.projectID)
		}
		return "", errors.Wrapf(ErrUnavailable, "access secret %q: %v", name, err)
	}
	return out, nil
}

// Exists はシークレットが存在するかどうかを返す
func (m *GoogleManager) Exists(ctx context.Context, name string) (bool, error) {
	_, err := m.run.Output(ctx, "gcloud",
		"secrets", "describe", name,
		"--project", m.projectID,
		"--format", "value(name)",
	)
	if err != nil {
		if isGcloudNotFound(err) {
			return false, nil
		}
		return false, errors.Wrapf(ErrUnavailable, "describe secret %q: %v", name, err)
	}
	return true, nil
}

// Set はシークレットを保存する。存在しなければ作成して最初のバージョンを追加する
func (m *GoogleManager) Set(ctx context.Context, name, value string) error {
	exists, err := m.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		err = m.run.RunInput(ctx, value, "gcloud",
			"secrets", "versions", "add", name,
			"--project", m.projectID,
			"--data-file", "-",
		)
	} else {
		err = m.run.RunInput(ctx, value, "gcloud",
			"secrets", "create", name,
			"--project", m.projectID,
			"--replication-policy", "automatic",
			"--data-file", "-",
		)
	}
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "store secret %q: %v", name, err)
	}
	return nil
}

// Delete はシークレットを削除する
func (m *GoogleManager) Delete(ctx context.Context, name string) error {
	_, err := m.run.Output(ctx, "gcloud",
		"secrets", "delete", name,
		"--project", m.projectID,
		"--quiet",
	)
	if err != nil {
		if isGcloudNotFound(err) {
			return errors.Wrapf(ErrNotFound, "google secret %q (project %s)", name, m.projectID)
		}
		return errors.Wrapf(ErrUnavailable, "delete secret %q: %v", name, err)
	}
	return nil
}

// List はシークレット名の一覧を返す
func (m *GoogleManager) List(ctx context.Context) ([]string, error) {
	out, err := m.run.Output(ctx, "gcloud",
		"secrets", "list",
		"--project", m.projectID,
		"--format", "value(name)",
	)
	if err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "list secrets: %v", err)
	}
	if out == "" {
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// projects/<id>/secrets/<name> 形式でも末尾要素を取る
		if i := strings.LastIndex(line, "/"); i >= 0 {
			line = line[i+1:]
		}
		names = append(names, line)
	}
	return names, nil
}
