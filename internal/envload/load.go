package envload

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/yacchi/eden-cli/internal/debug"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/projects"
	"github.com/yacchi/eden-cli/internal/secrets"
)

// 値スキームのプレフィックス
const (
	schemeSecret   = "secret:"
	schemeDynamic  = "task-func:"
	schemeProjects = "$.projects."
)

const (
	meterScope      = "eden.envload"
	metricLoads     = "eden.config.loads.total"
	attrEnvironment = "eden.environment"
)

var loadCounter = sync.OnceValue(func() metric.Int64Counter {
	counter, err := otel.Meter(meterScope).Int64Counter(
		metricLoads,
		metric.WithDescription("Total number of environment configuration loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil
	}
	return counter
})

type rawCandidate struct {
	value any
	layer string
}

// Load は環境変数を 7 レイヤーの設定ソースから解決する
//
// envName が空の場合、環境定義ファイル由来のレイヤーはスキップされる。
// 解決に失敗すると *Error を返す。
func Load(ctx context.Context, envName string, opts ...Option) (*Result, error) {
	o := newOptions(opts)

	if counter := loadCounter(); counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String(attrEnvironment, envName)))
	}

	candidates := map[string]rawCandidate{}
	claim := func(name string, value any, layer string) {
		upper := strings.ToUpper(name)
		if _, taken := candidates[upper]; taken {
			return
		}
		candidates[upper] = rawCandidate{value: value, layer: layer}
	}

	// callback レイヤー
	if o.callback != nil {
		vars, err := o.callback(ctx)
		if err != nil {
			return nil, &Error{Kind: KindCallbackFailed, Env: envName, Err: err}
		}
		for name, value := range vars {
			claim(name, value, LayerCallback)
		}
	}

	// test-config レイヤー
	if o.testMode != "" {
		tests, err := manifest.LoadTests(o.workDir)
		if err != nil {
			return nil, err
		}
		mode, err := tests.Mode(o.testMode)
		if err != nil {
			return nil, err
		}
		for name, value := range mode.Vars {
			claim(name, value, LayerTestConfig)
		}
	}

	// task-config レイヤー。未定義のタスク名は何も供給しない
	if o.task != "" {
		tasks, err := manifest.LoadTasks(o.workDir)
		if err != nil {
			return nil, err
		}
		if task, ok := tasks.Tasks[o.task]; ok {
			for name, value := range task.Vars {
				claim(name, value, LayerTaskConfig)
			}
		}
	}

	// app-config / sdk-config レイヤー
	envSource := ""
	if envName != "" {
		app, err := manifest.AppEnvironments(o.workDir)
		if err != nil {
			return nil, err
		}
		sdk, err := manifest.SDKEnvironments()
		if err != nil {
			return nil, err
		}
		appVars, appOK := app[envName]
		sdkVars, sdkOK := sdk[envName]
		if !appOK && !sdkOK {
			return nil, &Error{
				Kind:      KindEnvironmentNotFound,
				Env:       envName,
				Available: environmentNames(app, sdk),
			}
		}
		for name, value := range appVars {
			claim(name, value, LayerAppConfig)
		}
		for name, value := range sdkVars {
			claim(name, value, LayerSDKConfig)
		}
		switch {
		case appOK && sdkOK:
			envSource = manifest.ConfigDirName + "/" + manifest.EnvironmentsFileName + " + built-in"
		case appOK:
			envSource = manifest.ConfigDirName + "/" + manifest.EnvironmentsFileName
		default:
			envSource = "built-in"
		}
	}

	// base-config レイヤー
	for name, value := range o.base {
		claim(name, value, LayerBaseConfig)
	}

	// env-var レイヤーの適用と値スキームの解決
	// プロセス環境はいずれかのレイヤーが定義する変数だけを上書きする
	env := environMap(o.environ())
	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &Result{
		env:      envName,
		task:     o.task,
		testMode: o.testMode,
		vars:     make(map[string]Variable, len(names)),
	}
	for _, name := range names {
		if raw, ok := env[name]; ok {
			result.add(Variable{Name: name, Value: raw, Source: LayerEnvVar})
			continue
		}
		cand := candidates[name]
		value, isSecret, err := o.resolveValue(ctx, envName, name, cand)
		if err != nil {
			return nil, err
		}
		result.add(Variable{Name: name, Value: value, Source: cand.layer, secret: isSecret})
	}

	debug.Log("environment resolved",
		"env", envName, "task", o.task, "test_mode", o.testMode, "vars", len(result.vars))

	if !o.quiet {
		writeReport(o.out, result, envSource)
	}
	return result, nil
}

func environmentNames(app, sdk map[string]map[string]any) []string {
	seen := map[string]bool{}
	var names []string
	for name := range app {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range sdk {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// resolveValue は生の値を文字列化し、値スキームを解決する
func (o *options) resolveValue(ctx context.Context, envName, varName string, cand rawCandidate) (string, bool, error) {
	s, isString := cand.value.(string)
	if !isString {
		return stringify(cand.value), false, nil
	}

	switch {
	case strings.HasPrefix(s, schemeSecret):
		secretName := strings.TrimPrefix(s, schemeSecret)
		value, err := o.secretFunc(ctx, secretName)
		if err != nil {
			return "", false, o.secretError(err, envName, varName, cand.layer, secretName)
		}
		return value, true, nil

	case strings.HasPrefix(s, schemeDynamic):
		dynName := strings.TrimPrefix(s, schemeDynamic)
		fn, ok := o.dynamics[dynName]
		if !ok {
			return "", false, &Error{
				Kind:      KindDynamicNotFound,
				Env:       envName,
				Variable:  varName,
				Layer:     cand.layer,
				Available: dynamicNames(o.dynamics),
				Err:       errors.Errorf("dynamic value %q is not registered", dynName),
			}
		}
		value, err := fn(ctx)
		if err != nil {
			return "", false, &Error{
				Kind:     KindCallbackFailed,
				Env:      envName,
				Variable: varName,
				Layer:    cand.layer,
				Err:      errors.Wrapf(err, "dynamic value %q", dynName),
			}
		}
		return value, false, nil

	case strings.HasPrefix(s, schemeProjects):
		targetEnv := strings.TrimPrefix(s, schemeProjects)
		projectID, err := o.projectLookup(o.workDir, targetEnv)
		if err != nil {
			return "", false, o.projectError(err, envName, varName, cand.layer)
		}
		return projectID, false, nil
	}
	return s, false, nil
}

// NewSecretError はシークレット取得エラーを種別付きの *Error に変換する
func NewSecretError(err error, envName, secretName, provider string) *Error {
	kind := KindSecretUnavailable
	switch {
	case errors.Is(err, secrets.ErrNotFound):
		kind = KindSecretNotFound
	case errors.Is(err, secrets.ErrPassphraseRequired):
		kind = KindPassphraseRequired
	case errors.Is(err, secrets.ErrInvalidPassphrase):
		kind = KindInvalidPassphrase
	}
	return &Error{
		Kind:       kind,
		Env:        envName,
		SecretName: secretName,
		Provider:   provider,
		Err:        err,
	}
}

func (o *options) secretError(err error, envName, varName, layer, secretName string) *Error {
	e := NewSecretError(err, envName, secretName, o.secretProvider)
	e.Variable = varName
	e.Layer = layer
	return e
}

// NewProjectError はプロジェクト ID 解決エラーを種別付きの *Error に変換する
func NewProjectError(err error, envName string) error {
	switch {
	case errors.Is(err, projects.ErrFileNotFound):
		return &Error{
			Kind:               KindProjectsFileNotFound,
			Env:                envName,
			ProjectsFileExists: false,
			Err:                err,
		}
	case errors.Is(err, projects.ErrNotRegistered):
		return &Error{
			Kind:               KindProjectNotRegistered,
			Env:                envName,
			ProjectsFileExists: true,
			Err:                err,
		}
	}
	return errors.Wrap(err, "resolve project id")
}

func (o *options) projectError(err error, envName, varName, layer string) error {
	e := NewProjectError(err, envName)
	var le *Error
	if errors.As(e, &le) {
		le.Variable = varName
		le.Layer = layer
		return le
	}
	return errors.Wrapf(err, "resolve project id for %s", varName)
}

// ResolveProjectID は $.projects.<env> 形式の参照を .projects ファイルで解決する
// 参照形式でない値はそのまま返す
func ResolveProjectID(dir, envName, value string) (string, error) {
	if !strings.HasPrefix(value, schemeProjects) {
		return value, nil
	}
	targetEnv := strings.TrimPrefix(value, schemeProjects)
	projectID, err := projects.Lookup(dir, targetEnv)
	if err != nil {
		return "", NewProjectError(err, envName)
	}
	return projectID, nil
}

func dynamicNames(dynamics map[string]Dynamic) []string {
	names := make([]string, 0, len(dynamics))
	for name := range dynamics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stringify は YAML 由来のスカラー値を環境変数向けの文字列に変換する
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
