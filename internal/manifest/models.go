package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// ModelsFileName は AI モデル定義ファイル名（リポジトリ直下に置く）
const ModelsFileName = "models.yaml"

// Models は models.yaml の内容
type Models struct {
	AIModels AIModels                `yaml:"ai_models"`
	Services map[string]ModelService `yaml:"services"`
}

// AIModels は利用可能なモデルの一覧
type AIModels struct {
	Available map[string]Model `yaml:"available"`
}

// Model は 1 つの AI モデルの定義
type Model struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Provider    string `yaml:"provider"`
}

// ModelService はサービスごとの既定モデルとプロンプト設定
type ModelService struct {
	DefaultModel string `yaml:"default_model"`
	Prompt       string `yaml:"prompt"`
}

// ModelsPath は models.yaml のパスを返す
func ModelsPath(dir string) string {
	return filepath.Join(dir, ModelsFileName)
}

// LoadModels は models.yaml を読み込む
// ファイルが存在しない場合は空の定義を返す
func LoadModels(dir string) (*Models, error) {
	path := ModelsPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Models{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var m Models
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &m, nil
}

// AvailableModelIDs は定義済みモデル ID をソートして返す
func (m *Models) AvailableModelIDs() []string {
	ids := make([]string, 0, len(m.AIModels.Available))
	for id := range m.AIModels.Available {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Service は名前を指定してサービス設定を返す
// default_model と prompt の両方が揃っていない場合はエラーになる
func (m *Models) Service(name string) (*ModelService, error) {
	svc, ok := m.Services[name]
	if !ok {
		return nil, errors.Errorf("service %q is not defined (add a services.%s section to %s)", name, name, ModelsFileName)
	}
	if svc.DefaultModel == "" {
		return nil, errors.Errorf("service %q has no default model (set services.%s.default_model in %s)", name, name, ModelsFileName)
	}
	if svc.Prompt == "" {
		return nil, errors.Errorf("service %q has no prompt (set services.%s.prompt in %s)", name, name, ModelsFileName)
	}
	return &svc, nil
}
