package config

import (
	"os"
)

// ResolvedConfig は全レイヤーをマージし、デフォルト適用後の設定
// 全フィールドは具体的な値を持つ
// jubakoのmaterializationはJSONを使用するため、jsonタグが必須
// jubako tagでYAMLパスからマッピング（ネスト構造を解決）
type ResolvedConfig struct {
	// コア設定
	Core ResolvedCore `json:"core" jubako:"/core"`

	// 表示設定
	Display ResolvedDisplay `json:"display"`

	// クラウド設定
	Cloud ResolvedCloud `json:"cloud"`

	// テレメトリ設定
	Telemetry ResolvedTelemetry `json:"telemetry"`
}

// ResolvedCore はマージ済みのコア設定
// env: ディレクティブで環境変数からの自動マッピングを定義
// EDEN_CONFIG_ENV などの完全形式でマッピングされる
type ResolvedCore struct {
	// ConfigEnv は -e フラグ省略時に使う既定の設定環境名
	ConfigEnv string `json:"config_env" jubako:"/core/config_env,env:CONFIG_ENV"`
	Quiet     bool   `json:"quiet" jubako:"/core/quiet,env:QUIET"`

	// AppDir はアプリケーション設定ディレクトリの探索起点の上書き
	AppDir string `json:"app_dir" jubako:"/core/app_dir,env:APP_DIR"`
}

// ResolvedDisplay はマージ済みの表示設定
// jubako tagでdisplay.*からマッピング
type ResolvedDisplay struct {
	Output    string `json:"output" jubako:"/display/output,env:OUTPUT"`
	Color     string `json:"color" jubako:"/display/color,env:COLOR"`
	Hyperlink bool   `json:"hyperlink" jubako:"/display/hyperlink,env:HYPERLINK"`
}

// ResolvedCloud はマージ済みのクラウド設定
// jubako tagでcloud.*からマッピング
type ResolvedCloud struct {
	Region          string `json:"region" jubako:"/cloud/region,env:REGION"`
	ImageRepository string `json:"image_repository" jubako:"/cloud/image_repository,env:IMAGE_REPOSITORY"`
}

// ResolvedTelemetry はマージ済みのテレメトリ設定
type ResolvedTelemetry struct {
	Enabled bool `json:"enabled" jubako:"/telemetry/enabled,env:TELEMETRY"`
}

// envShortcuts は環境変数ショートカットマッピング
// EDEN_ENV などの省略形を EDEN_CONFIG_ENV の完全形式に展開する
var envShortcuts = map[string]string{
	"EDEN_ENV": "EDEN_CONFIG_ENV",
}

// expandEnvShortcuts は環境変数のショートカットを展開した環境変数リストを返す
// os.Environ() の結果に、ショートカット環境変数の展開を追加する
// 完全形式が既に設定されている場合は、完全形式を優先する
func expandEnvShortcuts() []string {
	envs := os.Environ()

	for shortKey, fullKey := range envShortcuts {
		if value := os.Getenv(shortKey); value != "" {
			// 完全形式がまだ設定されていなければ追加
			if os.Getenv(fullKey) == "" {
				envs = append(envs, fullKey+"="+value)
			}
		}
	}

	return envs
}

// NewResolvedConfig は空のResolvedConfigを作成する
func NewResolvedConfig() *ResolvedConfig {
	return &ResolvedConfig{}
}
