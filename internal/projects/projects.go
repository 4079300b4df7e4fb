// Package projects は環境ごとの GCP プロジェクト ID を記録する .projects ファイルを扱う
package projects

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

// FileName はプロジェクト ID 登録ファイル名
const FileName = ".projects"

const fileHeader = "# Project IDs for different environments"

var (
	// ErrFileNotFound は .projects ファイルが存在しないことを表す
	ErrFileNotFound = errors.New(".projects file not found")
	// ErrNotRegistered は指定した環境が .projects に登録されていないことを表す
	ErrNotRegistered = errors.New("environment not registered in .projects")
)

// Entry は .projects の 1 行分のエントリ
type Entry struct {
	Env       string
	ProjectID string
}

// RegisterResult は Register が行った変更の内訳
type RegisterResult struct {
	Created          bool
	GitignoreUpdated bool
}

// Path は .projects ファイルのパスを返す
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

func parse(data []byte) []Entry {
	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		entries = append(entries, Entry{
			Env:       strings.TrimSpace(key),
			ProjectID: strings.TrimSpace(value),
		})
	}
	return entries
}

// List は .projects の全エントリをファイル順で返す
func List(dir string) ([]Entry, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, errors.Wrapf(err, "read %s", Path(dir))
	}
	return parse(data), nil
}

// Lookup は環境名に対応するプロジェクト ID を返す
func Lookup(dir, env string) (string, error) {
	entries, err := List(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.Env == env {
			return e.ProjectID, nil
		}
	}
	return "", errors.Wrapf(ErrNotRegistered, "environment %q", env)
}

// Register は環境名とプロジェクト ID の対応を .projects に書き込む
// ファイルが無ければヘッダコメント付きで作成し、.gitignore にも .projects を追加する
func Register(dir, env, projectID string) (*RegisterResult, error) {
	result := &RegisterResult{}
	path := Path(dir)

	var lines []string
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	case os.IsNotExist(err):
		lines = []string{fileHeader}
		result.Created = true
	default:
		return nil, errors.Wrapf(err, "read %s", path)
	}

	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, env+"=") {
			lines[i] = env + "=" + projectID
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, env+"="+projectID)
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, errors.Wrapf(err, "write %s", path)
	}

	updated, err := ensureGitignore(dir)
	if err != nil {
		return nil, err
	}
	result.GitignoreUpdated = updated
	return result, nil
}

// ensureGitignore は .gitignore に .projects エントリが含まれるようにする
func ensureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")
	block := "# Project IDs (sensitive)\n" + FileName + "\n"

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, errors.Wrapf(err, "read %s", path)
		}
		if err := os.WriteFile(path, []byte(block), 0o644); err != nil {
			return false, errors.Wrapf(err, "write %s", path)
		}
		return true, nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == FileName {
			return false, nil
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += "\n" + block
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, errors.Wrapf(err, "write %s", path)
	}
	return true, nil
}
