package manifest

import (
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// TestsFileName はテストスイート定義ファイル名
const TestsFileName = "tests.yaml"

//go:embed tests.yaml
var sdkTestsYAML []byte

// Tests は tests.yaml の内容
type Tests struct {
	Modes map[string]TestMode `yaml:"modes"`
}

// TestMode は 1 つのテストスイートの定義
type TestMode struct {
	Description     string         `yaml:"description"`
	Env             string         `yaml:"env"`
	Paths           []string       `yaml:"paths"`
	OmitIntegration bool           `yaml:"omit-integration"`
	Vars            map[string]any `yaml:"vars"`
}

// UnknownTestModeError は未定義のテストモード名が指定されたことを表す
type UnknownTestModeError struct {
	Name      string
	Available []string
}

func (e *UnknownTestModeError) Error() string {
	return "unknown test mode: " + e.Name + " (available: " + strings.Join(e.Available, ", ") + ")"
}

// TestsPath は config/tests.yaml のパスを返す
func TestsPath(dir string) string {
	return filepath.Join(dir, ConfigDirName, TestsFileName)
}

// LoadTests はテストスイート定義を読み込む
// アプリケーション側の config/tests.yaml が無ければ SDK 組み込み定義を使う
func LoadTests(dir string) (*Tests, error) {
	path := TestsPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		data = sdkTestsYAML
	}
	var t Tests
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if t.Modes == nil {
		t.Modes = map[string]TestMode{}
	}
	return &t, nil
}

// ModeNames は定義済みテストモード名をソートして返す
func (t *Tests) ModeNames() []string {
	names := make([]string, 0, len(t.Modes))
	for name := range t.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mode は名前を指定してテストモード定義を返す
func (t *Tests) Mode(name string) (*TestMode, error) {
	mode, ok := t.Modes[name]
	if !ok {
		return nil, &UnknownTestModeError{Name: name, Available: t.ModeNames()}
	}
	return &mode, nil
}
