// Package envload は複数レイヤーの設定ソースから環境変数を解決する
//
// レイヤーは優先度順に env-var, callback, test-config, task-config,
// app-config, sdk-config, base-config の 7 つで、変数ごとに最初に
// 見つかったレイヤーの値が採用される。
package envload

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/secrets"
)

// レイヤー名。解決結果の provenance として記録される
const (
	LayerEnvVar     = "env-var"
	LayerCallback   = "callback"
	LayerTestConfig = "test-config"
	LayerTaskConfig = "task-config"
	LayerAppConfig  = "app-config"
	LayerSDKConfig  = "sdk-config"
	LayerBaseConfig = "base-config"
)

// Callback は解決時に呼び出され callback レイヤーの変数を供給する
type Callback func(ctx context.Context) (map[string]string, error)

// Dynamic は task-func スキームから参照される動的値の生成関数
type Dynamic func(ctx context.Context) (string, error)

type options struct {
	task     string
	testMode string
	callback Callback
	base     map[string]string
	quiet    bool
	dynamics map[string]Dynamic

	workDir        string
	environ        func() []string
	secretFunc     func(ctx context.Context, name string) (string, error)
	secretProvider string
	projectLookup  func(dir, env string) (string, error)
	out            io.Writer
}

// Option は Load の動作を調整する
type Option func(*options)

// WithTask は task-config レイヤーを有効にするタスク名を設定する
func WithTask(name string) Option {
	return func(o *options) {
		o.task = name
	}
}

// WithTestMode は test-config レイヤーを有効にするテストモード名を設定する
func WithTestMode(mode string) Option {
	return func(o *options) {
		o.testMode = mode
	}
}

// WithCallback はファイルレイヤーより優先される変数を注入するコールバックを設定する
func WithCallback(cb Callback) Option {
	return func(o *options) {
		o.callback = cb
	}
}

// WithBaseLayer は最下位レイヤーになる変数マップを設定する
func WithBaseLayer(base map[string]string) Option {
	return func(o *options) {
		o.base = base
	}
}

// WithQuiet は stderr への解決レポート出力を抑止する
func WithQuiet() Option {
	return func(o *options) {
		o.quiet = true
	}
}

// WithDynamics は task-func スキームから参照できる動的値を登録する
func WithDynamics(dynamics map[string]Dynamic) Option {
	return func(o *options) {
		o.dynamics = dynamics
	}
}

// WithWorkDir は設定ファイルの探索起点を設定する（既定はカレントディレクトリ）
func WithWorkDir(dir string) Option {
	return func(o *options) {
		o.workDir = dir
	}
}

// WithEnvironFunc はプロセス環境の取得方法を差し替える（テスト用）
func WithEnvironFunc(environ func() []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithSecretFunc は secret スキームの解決方法を差し替える（テスト用）
func WithSecretFunc(fn func(ctx context.Context, name string) (string, error)) Option {
	return func(o *options) {
		o.secretFunc = fn
	}
}

// WithProjectLookup は $.projects スキームの解決方法を差し替える（テスト用）
func WithProjectLookup(fn func(dir, env string) (string, error)) Option {
	return func(o *options) {
		o.projectLookup = fn
	}
}

// WithReportWriter は解決レポートの出力先を差し替える（テスト用）
func WithReportWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.workDir == "" {
		o.workDir = "."
	}
	if o.environ == nil {
		o.environ = os.Environ
	}
	if o.out == nil {
		o.out = os.Stderr
	}
	if o.projectLookup == nil {
		o.projectLookup = projects.Lookup
	}
	if o.secretFunc == nil {
		o.secretFunc = func(ctx context.Context, name string) (string, error) {
			m, err := secrets.Default(o.workDir)
			if err != nil {
				return "", err
			}
			o.secretProvider = m.Type()
			return m.Get(ctx, name)
		}
	}
	return o
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		m[key] = value
	}
	return m
}
