package manifest

import (
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// AppFileName はアプリケーション定義ファイル名
const AppFileName = "app.yaml"

// App は config/app.yaml の内容
type App struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Secrets  AppSecrets  `yaml:"secrets"`
	API      AppAPI      `yaml:"api"`
	Registry AppRegistry `yaml:"registry"`
}

// AppSecrets はシークレットマネージャの設定
type AppSecrets struct {
	Manager string `yaml:"manager"`
}

// AppAPI は API サービスの設定
type AppAPI struct {
	Port   int    `yaml:"port"`
	Module string `yaml:"module"`
}

// AppRegistry はコンテナイメージレジストリの設定
// Project は .projects のエイリアスまたはプロジェクト ID そのもの
type AppRegistry struct {
	Project string `yaml:"project"`
	Image   string `yaml:"image"`
}

// SecretsManager は設定されたシークレットマネージャ種別を返す（既定は local）
func (a *App) SecretsManager() string {
	if a == nil || a.Secrets.Manager == "" {
		return "local"
	}
	return a.Secrets.Manager
}

// ImageName はビルド対象のイメージ名を返す（未設定時はアプリ ID）
func (a *App) ImageName() string {
	if a.Registry.Image != "" {
		return a.Registry.Image
	}
	return a.ID
}

// AppPath は config/app.yaml のパスを返す
func AppPath(dir string) string {
	return filepath.Join(dir, ConfigDirName, AppFileName)
}

// LoadApp は config/app.yaml を読み込む
func LoadApp(dir string) (*App, error) {
	path := AppPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "%s not found", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var app App
	if err := yaml.Unmarshal(data, &app); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if app.ID == "" {
		return nil, errors.Errorf("%s: missing required field: id", path)
	}
	return &app, nil
}
