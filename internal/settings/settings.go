// Package settings は環境ごとの実行時設定の組み立てと API URL の導出を行う
package settings

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/yacchi/eden-cli/internal/cache"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/manifest"
	"github.com/yacchi/eden-cli/internal/runner"
)

// DefaultRegion は Cloud Run サービスの既定リージョン
const DefaultRegion = "us-central1"

// serviceURLCacheTTL は導出した Cloud Run URL のキャッシュ期間
// URL はリビジョンをまたいで安定なので、テストの繰り返し実行で
// gcloud describe を毎回呼ばずに済むようにする
const serviceURLCacheTTL = time.Hour

// Settings は単一環境のマージ済み実行時設定
type Settings struct {
	AppID               string
	ProjectID           string
	TestAPIInMemory     bool
	TestAPIURL          string
	Port                int
	CustomAuthEnabled   bool
	StubAI              bool
	StubDB              bool
	Local               bool
	TestOmitIntegration bool
}

// Load は環境定義とアプリケーション定義から Settings を組み立てる
//
// custom_auth_enabled / stub_ai / stub_db は必須。project_id が
// $.projects 参照の場合は .projects ファイルで解決する。
// config/app.yaml が存在しない場合 AppID は空のままになる
func Load(dir, envName string) (*Settings, error) {
	vars, err := manifest.Environment(dir, envName)
	if err != nil {
		var unknown *manifest.UnknownEnvironmentError
		if errors.As(err, &unknown) {
			return nil, &envload.Error{
				Kind:      envload.KindEnvironmentNotFound,
				Env:       envName,
				Available: unknown.Available,
				Err:       err,
			}
		}
		return nil, err
	}

	s := &Settings{}
	if s.CustomAuthEnabled, err = requiredBool(vars, envName, "custom_auth_enabled"); err != nil {
		return nil, err
	}
	if s.StubAI, err = requiredBool(vars, envName, "stub_ai"); err != nil {
		return nil, err
	}
	if s.StubDB, err = requiredBool(vars, envName, "stub_db"); err != nil {
		return nil, err
	}
	s.TestAPIInMemory = asBool(vars["test_api_in_memory"])
	s.TestAPIURL = asString(vars["test_api_url"])
	s.Port = asInt(vars["port"])
	s.Local = asBool(vars["local"])
	s.TestOmitIntegration = asBool(vars["test_omit_integration"])

	if raw := asString(vars["project_id"]); raw != "" {
		s.ProjectID, err = envload.ResolveProjectID(dir, envName, raw)
		if err != nil {
			return nil, err
		}
	}

	app, err := manifest.LoadApp(dir)
	switch {
	case err == nil:
		s.AppID = app.ID
	case errors.Is(err, fs.ErrNotExist):
		// app.yaml が無いリポジトリではローカル環境向けの設定のみ使える
	default:
		return nil, err
	}
	return s, nil
}

// DeriveAPIURL は設定から API のベース URL を導出する
//
// 優先順位は API_TESTING_URL 環境変数、ローカル実行、Cloud Run の順
func (s *Settings) DeriveAPIURL(ctx context.Context, run *runner.Runner) (string, error) {
	if url := os.Getenv("API_TESTING_URL"); url != "" {
		return url, nil
	}
	if s.Local {
		if s.Port != 0 {
			return fmt.Sprintf("http://localhost:%d", s.Port), nil
		}
		return "http://localhost", nil
	}
	if s.ProjectID != "" {
		if s.AppID == "" {
			return "", errors.New("cannot derive Cloud Run URL: app id is required")
		}
		return CloudRunServiceURL(ctx, run, s.ProjectID, s.AppID+"-api", DefaultRegion)
	}
	return "", errors.New("cannot derive API URL: neither local mode nor project id is configured")
}

// CloudRunServiceURL は Cloud Run サービスの公開 URL を gcloud で取得する
func CloudRunServiceURL(ctx context.Context, run *runner.Runner, projectID, service, region string) (string, error) {
	if region == "" {
		region = DefaultRegion
	}
	out, err := run.Output(ctx, "gcloud", "run", "services", "describe", service,
		"--project", projectID, "--region", region, "--format=value(status.url)")
	if err != nil {
		return "", errors.Wrapf(err, "describe Cloud Run service %s", service)
	}
	url := strings.TrimSpace(out)
	if url == "" {
		return "", errors.Errorf("Cloud Run service %s in project %s has no URL", service, projectID)
	}
	return url, nil
}

// ValidateRemoteAPI は TEST_API_MODE=REMOTE の構成が URL 導出に足りるか検証する
//
// 外部プロセスを起動しない事前チェック。導出に必要な変数が欠けている場合は
// KindRemoteAPIConfig のエラーを返す
func ValidateRemoteAPI(result *envload.Result, profile string) error {
	if result.Value("TEST_API_MODE") != "REMOTE" {
		return nil
	}
	if result.Value("TEST_API_URL") != "" {
		return nil
	}
	if strings.EqualFold(result.Value("TARGET_LOCAL"), "true") {
		return nil
	}

	var missing []string
	if result.Value("TARGET_PROJECT_ID") == "" {
		missing = append(missing, "TARGET_PROJECT_ID")
	}
	if result.Value("TARGET_APP_ID") == "" {
		missing = append(missing, "TARGET_APP_ID")
	}
	if len(missing) == 0 {
		return nil
	}
	if result.Value("PROJECT_ID") != "" && result.Value("APP_ID") != "" {
		return nil
	}
	return &envload.Error{
		Kind:        envload.KindRemoteAPIConfig,
		Env:         result.Env(),
		MissingVars: missing,
		Profile:     profile,
	}
}

// RemoteAPIURL は解決済み環境変数からリモート API テスト用の URL を組み立てる
func RemoteAPIURL(ctx context.Context, run *runner.Runner, result *envload.Result) (string, error) {
	if url := result.Value("TEST_API_URL"); url != "" {
		return url, nil
	}
	if strings.EqualFold(result.Value("TARGET_LOCAL"), "true") {
		port := result.Value("TARGET_PORT")
		if port == "" {
			port = result.Value("PORT")
		}
		if port == "" {
			port = "8000"
		}
		if port != "80" {
			return "http://localhost:" + port, nil
		}
		return "http://localhost", nil
	}

	projectID := result.Value("TARGET_PROJECT_ID")
	appID := result.Value("TARGET_APP_ID")
	region := result.Value("TARGET_GCP_REGION")
	if projectID == "" || appID == "" {
		projectID = result.Value("PROJECT_ID")
		appID = result.Value("APP_ID")
		region = result.Value("GCP_REGION")
	}
	if projectID != "" && appID != "" {
		return cachedServiceURL(ctx, run, projectID, appID+"-api", region)
	}
	return "", &envload.Error{
		Kind:        envload.KindRemoteAPIConfig,
		Env:         result.Env(),
		MissingVars: []string{"TARGET_PROJECT_ID", "TARGET_APP_ID"},
	}
}

// cachedServiceURL は CloudRunServiceURL をファイルキャッシュ越しに引く
// キャッシュが使えない環境では素通しする
func cachedServiceURL(ctx context.Context, run *runner.Runner, projectID, service, region string) (string, error) {
	fc, err := cache.NewFileCache("")
	if err != nil {
		return CloudRunServiceURL(ctx, run, projectID, service, region)
	}

	key := "cloud-run-url:" + projectID + ":" + region + ":" + service
	var url string
	if ok, _ := fc.Get(key, &url); ok && url != "" {
		return url, nil
	}

	url, err = CloudRunServiceURL(ctx, run, projectID, service, region)
	if err != nil {
		return "", err
	}
	_ = fc.Set(key, url, serviceURLCacheTTL)
	return url, nil
}

func requiredBool(vars map[string]any, envName, key string) (bool, error) {
	v, ok := vars[key]
	if !ok {
		return false, errors.Errorf("missing required setting %q in environment %q", key, envName)
	}
	return asBool(v), nil
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	}
	return 0
}
