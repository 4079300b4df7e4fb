package envload

import (
	"os"
	"sort"
	"sync"

	"github.com/go-faster/errors"
)

// Apply されたスナップショットをプロセス単位で記録する
var (
	sessionMu sync.Mutex
	applied   map[string]string
)

func applyToProcess(vars []Variable) error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if applied == nil {
		applied = map[string]string{}
	}
	for _, v := range vars {
		if err := os.Setenv(v.Name, v.Value); err != nil {
			return errors.Wrapf(err, "set %s", v.Name)
		}
		applied[v.Name] = v.Value
	}
	return nil
}

// Applied は Apply で書き出した変数名をソートして返す
func Applied() []string {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	names := make([]string, 0, len(applied))
	for name := range applied {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check は Apply 済みの変数がプロセス環境で改変されていないか検査する
// 改変があれば KindEnvironmentCorrupted の *Error を返す
func Check() error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	var corrupted []string
	for name, want := range applied {
		got, ok := os.LookupEnv(name)
		if !ok || got != want {
			corrupted = append(corrupted, name)
		}
	}
	if len(corrupted) == 0 {
		return nil
	}
	sort.Strings(corrupted)
	return &Error{Kind: KindEnvironmentCorrupted, CorruptedVars: corrupted}
}

// ClearEnv は Apply で書き出した変数をプロセス環境から削除し、セッションを破棄する
func ClearEnv() error {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	for name := range applied {
		if err := os.Unsetenv(name); err != nil {
			return errors.Wrapf(err, "unset %s", name)
		}
	}
	applied = nil
	return nil
}
