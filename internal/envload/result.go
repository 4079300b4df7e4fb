package envload

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// Variable は解決済みの環境変数 1 つを表す
type Variable struct {
	Name   string
	Value  string
	Source string

	secret bool
}

// Secret は secret スキーム由来の値かどうかを返す。レポート表示でマスクされる
func (v Variable) Secret() bool {
	return v.secret
}

// Result は 1 回の Load で解決された変数の集合
type Result struct {
	env      string
	task     string
	testMode string
	vars     map[string]Variable
}

// Env は解決に使った設定環境名を返す
func (r *Result) Env() string {
	return r.env
}

// Task は解決に使ったタスク名を返す
func (r *Result) Task() string {
	return r.task
}

// TestMode は解決に使ったテストモード名を返す
func (r *Result) TestMode() string {
	return r.testMode
}

func (r *Result) add(v Variable) {
	r.vars[v.Name] = v
}

// Get は変数を名前で引く。名前は大文字化して照合する
func (r *Result) Get(name string) (Variable, bool) {
	v, ok := r.vars[strings.ToUpper(name)]
	return v, ok
}

// Value は変数の値を返す。未解決なら空文字列
func (r *Result) Value(name string) string {
	v, _ := r.Get(name)
	return v.Value
}

// Len は解決された変数の数を返す
func (r *Result) Len() int {
	return len(r.vars)
}

// Vars は解決された変数を名前順で返す
func (r *Result) Vars() []Variable {
	vars := make([]Variable, 0, len(r.vars))
	for _, v := range r.vars {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

// Environ は解決された変数を KEY=VALUE 形式のスライスで返す
func (r *Result) Environ() []string {
	vars := r.Vars()
	environ := make([]string, 0, len(vars))
	for _, v := range vars {
		environ = append(environ, v.Name+"="+v.Value)
	}
	return environ
}

// Apply は解決された変数をプロセス環境に書き出し、セッションに記録する
// 記録した変数は Check で改変検出の対象になる
func (r *Result) Apply() error {
	if err := applyToProcess(r.Vars()); err != nil {
		return errors.Wrap(err, "apply environment")
	}
	return nil
}
