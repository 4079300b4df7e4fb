package manifest

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"
)

// TasksFileName はタスク定義ファイル名
const TasksFileName = "tasks.yaml"

// Tasks は tasks.yaml の内容
type Tasks struct {
	Tasks map[string]Task `yaml:"tasks"`
}

// Task は 1 つのタスクの定義
type Task struct {
	Description string         `yaml:"description"`
	Env         string         `yaml:"env"`
	Vars        map[string]any `yaml:"vars"`
}

// TasksPath は config/tasks.yaml のパスを返す
func TasksPath(dir string) string {
	return filepath.Join(dir, ConfigDirName, TasksFileName)
}

// LoadTasks はタスク定義を読み込む
// ファイルが存在しない場合は空の定義を返す
func LoadTasks(dir string) (*Tasks, error) {
	path := TasksPath(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Tasks{Tasks: map[string]Task{}}, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	var t Tasks
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if t.Tasks == nil {
		t.Tasks = map[string]Task{}
	}
	return &t, nil
}

// TaskNames は定義済みタスク名をソートして返す
func (t *Tasks) TaskNames() []string {
	names := make([]string, 0, len(t.Tasks))
	for name := range t.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultEnv はタスクに設定された既定の環境名を返す（未設定なら空文字列）
func (t *Tasks) DefaultEnv(name string) string {
	task, ok := t.Tasks[name]
	if !ok {
		return ""
	}
	return task.Env
}
