// Package secrets はアプリケーションシークレットの保存と取得を扱う
package secrets

import (
	"context"
	"io/fs"
	"os"
	"sync"

	"github.com/go-faster/errors"

	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
)

var (
	// ErrNotFound はシークレットが存在しないことを表す
	ErrNotFound = errors.New("secret not found")
	// ErrPassphraseRequired はローカルボールトの鍵がキャッシュされていないことを表す
	ErrPassphraseRequired = errors.New("passphrase required: no cached vault key")
	// ErrInvalidPassphrase はパスフレーズ（またはキャッシュ鍵）でボールトを開けないことを表す
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	// ErrProjectRequired は google マネージャにプロジェクト ID が渡されていないことを表す
	ErrProjectRequired = errors.New("project id required")
	// ErrUnavailable はシークレットマネージャ自体が利用できないことを表す
	ErrUnavailable = errors.New("secrets manager unavailable")
)

// Manager はシークレットストアへの共通インターフェース
type Manager interface {
	// Type はマネージャ種別（local / google）を返す
	Type() string
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// Open は config/app.yaml の secrets.manager 設定に従ってマネージャを作成する
// app.yaml が無い場合は local になる
func Open(dir string) (Manager, error) {
	managerType := "local"
	app, err := manifest.LoadApp(dir)
	switch {
	case err == nil:
		managerType = app.SecretsManager()
	case errors.Is(err, fs.ErrNotExist):
		// app.yaml なしでもローカルボールトは使える
	default:
		return nil, err
	}

	switch managerType {
	case "local":
		return NewLocal(dir), nil
	case "google":
		projectID := os.Getenv("PROJECT_ID")
		if projectID == "" {
			return nil, errors.Wrap(ErrProjectRequired, "google secrets manager")
		}
		return NewGoogle(projectID, runner.New(runner.WithDir(dir))), nil
	default:
		return nil, errors.Errorf("unknown secrets manager type: %q", managerType)
	}
}

var (
	defaultMu      sync.Mutex
	defaultManager Manager
)

// Default はプロセス内で共有するマネージャを返す
func Default(dir string) (Manager, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager != nil {
		return defaultManager, nil
	}
	m, err := Open(dir)
	if err != nil {
		return nil, err
	}
	defaultManager = m
	return m, nil
}

// Reset は共有マネージャを破棄する（テスト用）
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = nil
}
