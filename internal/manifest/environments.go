// Package manifest は SDK とアプリケーションの YAML 設定ファイルを読み込む
package manifest

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// ConfigDirName はアプリケーション設定ファイルを置くディレクトリ名
const ConfigDirName = "config"

// EnvironmentsFileName はアプリケーション側の環境定義ファイル名
const EnvironmentsFileName = "environments.yaml"

//go:embed environments.yaml
var sdkEnvironmentsYAML []byte

// envFile は environments.yaml のトップレベル構造
type envFile struct {
	Environments map[string]map[string]any `yaml:"environments"`
}

// UnknownEnvironmentError は未定義の環境名が指定されたことを表す
type UnknownEnvironmentError struct {
	Name      string
	Available []string
}

func (e *UnknownEnvironmentError) Error() string {
	return "unknown config environment: " + e.Name + " (available: " + strings.Join(e.Available, ", ") + ")"
}

var sdkEnvironments = sync.OnceValues(func() (map[string]map[string]any, error) {
	var f envFile
	if err := yaml.Unmarshal(sdkEnvironmentsYAML, &f); err != nil {
		return nil, errors.Wrap(err, "parse built-in environments.yaml")
	}
	if f.Environments == nil {
		f.Environments = map[string]map[string]any{}
	}
	return f.Environments, nil
})

// SDKEnvironments は SDK 組み込みの環境定義を返す
func SDKEnvironments() (map[string]map[string]any, error) {
	return sdkEnvironments()
}

// AppEnvironmentsPath はアプリケーション側の環境定義ファイルのパスを返す
func AppEnvironmentsPath(dir string) string {
	return filepath.Join(dir, ConfigDirName, EnvironmentsFileName)
}

// AppEnvironments はアプリケーション側の環境定義を読み込む
// ファイルが存在しない場合は空のマップを返す
func AppEnvironments(dir string) (map[string]map[string]any, error) {
	path := AppEnvironmentsPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var f envFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if f.Environments == nil {
		f.Environments = map[string]map[string]any{}
	}
	return f.Environments, nil
}

// MergedEnvironments は SDK とアプリケーションの環境定義をマージして返す
// 同名環境では変数単位でアプリケーション側が優先される
func MergedEnvironments(dir string) (map[string]map[string]any, error) {
	sdk, err := SDKEnvironments()
	if err != nil {
		return nil, err
	}
	app, err := AppEnvironments(dir)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]map[string]any, len(sdk)+len(app))
	for name, vars := range sdk {
		m := make(map[string]any, len(vars))
		for k, v := range vars {
			m[k] = v
		}
		merged[name] = m
	}
	for name, vars := range app {
		m, ok := merged[name]
		if !ok {
			m = make(map[string]any, len(vars))
			merged[name] = m
		}
		for k, v := range vars {
			m[k] = v
		}
	}
	return merged, nil
}

// EnvironmentNames は定義済み環境名をソートして返す
func EnvironmentNames(dir string) ([]string, error) {
	merged, err := MergedEnvironments(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Environment は名前を指定してマージ済みの環境定義を返す
func Environment(dir, name string) (map[string]any, error) {
	merged, err := MergedEnvironments(dir)
	if err != nil {
		return nil, err
	}
	vars, ok := merged[name]
	if !ok {
		names := make([]string, 0, len(merged))
		for n := range merged {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, &UnknownEnvironmentError{Name: name, Available: names}
	}
	return vars, nil
}

// WriteAppEnvironments はアプリケーション側の環境定義ファイルを書き出す
func WriteAppEnvironments(dir string, envs map[string]map[string]any) error {
	path := AppEnvironmentsPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(path))
	}
	data, err := yaml.Marshal(envFile{Environments: envs})
	if err != nil {
		return errors.Wrap(err, "marshal environments")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
