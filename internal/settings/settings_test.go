package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yacchi/eden-cli/internal/envload"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBuiltinEnvironment(t *testing.T) {
	dir := t.TempDir()

	s, err := Load(dir, "unit-testing")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.CustomAuthEnabled {
		t.Error("CustomAuthEnabled = true, want false")
	}
	if !s.StubAI {
		t.Error("StubAI = false, want true")
	}
	if !s.StubDB {
		t.Error("StubDB = false, want true")
	}
	if !s.Local {
		t.Error("Local = false, want true")
	}
	if !s.TestAPIInMemory {
		t.Error("TestAPIInMemory = false, want true")
	}
	if s.AppID != "" {
		t.Errorf("AppID = %q, want empty without app.yaml", s.AppID)
	}
}

func TestLoadAppOverridesAndAppID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "app.yaml"), "id: demo\nname: Demo\n")
	writeFile(t, filepath.Join(dir, "config", "environments.yaml"), `environments:
  local-server:
    port: 9001
`)

	s, err := Load(dir, "local-server")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.AppID != "demo" {
		t.Errorf("AppID = %q, want %q", s.AppID, "demo")
	}
	if s.Port != 9001 {
		t.Errorf("Port = %d, want 9001", s.Port)
	}
}

func TestLoadMissingRequiredSetting(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "environments.yaml"), `environments:
  broken:
    custom_auth_enabled: true
    stub_ai: true
`)

	_, err := Load(dir, "broken")
	if err == nil {
		t.Fatal("Load() succeeded, want error for missing stub_db")
	}
	if got := err.Error(); !strings.Contains(got, "stub_db") {
		t.Errorf("Load() error = %q, want mention of stub_db", got)
	}
}

func TestLoadUnknownEnvironment(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir, "nonexistent")
	if err == nil {
		t.Fatal("Load() succeeded, want error")
	}
	var loadErr *envload.Error
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %T, want *envload.Error", err)
	}
	if loadErr.Kind != envload.KindEnvironmentNotFound {
		t.Errorf("Kind = %v, want KindEnvironmentNotFound", loadErr.Kind)
	}
	if len(loadErr.Available) == 0 {
		t.Error("Available is empty, want built-in environment names")
	}
}

func TestLoadResolvesProjectRef(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "environments.yaml"), `environments:
  staging:
    custom_auth_enabled: true
    stub_ai: false
    stub_db: false
    project_id: "$.projects.staging"
`)
	writeFile(t, filepath.Join(dir, ".projects"), "staging=my-staging-project\n")

	s, err := Load(dir, "staging")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ProjectID != "my-staging-project" {
		t.Errorf("ProjectID = %q, want %q", s.ProjectID, "my-staging-project")
	}
}

func TestLoadProjectRefWithoutProjectsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config", "environments.yaml"), `environments:
  staging:
    custom_auth_enabled: true
    stub_ai: false
    stub_db: false
    project_id: "$.projects.staging"
`)

	_, err := Load(dir, "staging")
	var loadErr *envload.Error
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %T, want *envload.Error", err)
	}
	if loadErr.Kind != envload.KindProjectsFileNotFound {
		t.Errorf("Kind = %v, want KindProjectsFileNotFound", loadErr.Kind)
	}
}

func TestDeriveAPIURLLocal(t *testing.T) {
	t.Setenv("API_TESTING_URL", "")
	ctx := context.Background()

	tests := []struct {
		name string
		s    Settings
		want string
	}{
		{name: "with port", s: Settings{Local: true, Port: 8000}, want: "http://localhost:8000"},
		{name: "without port", s: Settings{Local: true}, want: "http://localhost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.DeriveAPIURL(ctx, nil)
			if err != nil {
				t.Fatalf("DeriveAPIURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DeriveAPIURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveAPIURLEnvOverride(t *testing.T) {
	t.Setenv("API_TESTING_URL", "http://api.example.com")

	s := Settings{}
	got, err := s.DeriveAPIURL(context.Background(), nil)
	if err != nil {
		t.Fatalf("DeriveAPIURL() error = %v", err)
	}
	if got != "http://api.example.com" {
		t.Errorf("DeriveAPIURL() = %q, want env override", got)
	}
}

func TestDeriveAPIURLUnconfigured(t *testing.T) {
	t.Setenv("API_TESTING_URL", "")

	s := Settings{}
	if _, err := s.DeriveAPIURL(context.Background(), nil); err == nil {
		t.Error("DeriveAPIURL() succeeded, want error")
	}
}

func TestDeriveAPIURLCloudRequiresAppID(t *testing.T) {
	t.Setenv("API_TESTING_URL", "")

	s := Settings{ProjectID: "my-project"}
	if _, err := s.DeriveAPIURL(context.Background(), nil); err == nil {
		t.Error("DeriveAPIURL() succeeded, want error without app id")
	}
}

func baseResult(t *testing.T, vars map[string]string) *envload.Result {
	t.Helper()
	result, err := envload.Load(context.Background(), "",
		envload.WithBaseLayer(vars),
		envload.WithWorkDir(t.TempDir()),
		envload.WithEnvironFunc(func() []string { return nil }),
		envload.WithQuiet(),
	)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return result
}

func TestValidateRemoteAPI(t *testing.T) {
	tests := []struct {
		name        string
		vars        map[string]string
		wantErr     bool
		wantMissing []string
	}{
		{
			name: "not remote mode",
			vars: map[string]string{"TEST_API_MODE": "IN_MEMORY"},
		},
		{
			name: "explicit url",
			vars: map[string]string{"TEST_API_MODE": "REMOTE", "TEST_API_URL": "http://localhost:8000"},
		},
		{
			name: "target local",
			vars: map[string]string{"TEST_API_MODE": "REMOTE", "TARGET_LOCAL": "true"},
		},
		{
			name: "target project and app",
			vars: map[string]string{"TEST_API_MODE": "REMOTE", "TARGET_PROJECT_ID": "p", "TARGET_APP_ID": "a"},
		},
		{
			name: "fallback project and app",
			vars: map[string]string{"TEST_API_MODE": "REMOTE", "PROJECT_ID": "p", "APP_ID": "a"},
		},
		{
			name:        "nothing configured",
			vars:        map[string]string{"TEST_API_MODE": "REMOTE"},
			wantErr:     true,
			wantMissing: []string{"TARGET_PROJECT_ID", "TARGET_APP_ID"},
		},
		{
			name:        "missing app id",
			vars:        map[string]string{"TEST_API_MODE": "REMOTE", "TARGET_PROJECT_ID": "p"},
			wantErr:     true,
			wantMissing: []string{"TARGET_APP_ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRemoteAPI(baseResult(t, tt.vars), "api-tests")
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateRemoteAPI() error = %v, want nil", err)
				}
				return
			}
			var loadErr *envload.Error
			if !errors.As(err, &loadErr) {
				t.Fatalf("ValidateRemoteAPI() error = %T, want *envload.Error", err)
			}
			if loadErr.Kind != envload.KindRemoteAPIConfig {
				t.Errorf("Kind = %v, want KindRemoteAPIConfig", loadErr.Kind)
			}
			if loadErr.Profile != "api-tests" {
				t.Errorf("Profile = %q, want %q", loadErr.Profile, "api-tests")
			}
			if len(loadErr.MissingVars) != len(tt.wantMissing) {
				t.Fatalf("MissingVars = %v, want %v", loadErr.MissingVars, tt.wantMissing)
			}
			for i, want := range tt.wantMissing {
				if loadErr.MissingVars[i] != want {
					t.Errorf("MissingVars[%d] = %q, want %q", i, loadErr.MissingVars[i], want)
				}
			}
		})
	}
}

func TestRemoteAPIURLLocal(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{
			name: "explicit url wins",
			vars: map[string]string{"TEST_API_URL": "http://example.com"},
			want: "http://example.com",
		},
		{
			name: "target port",
			vars: map[string]string{"TARGET_LOCAL": "true", "TARGET_PORT": "9000"},
			want: "http://localhost:9000",
		},
		{
			name: "port fallback",
			vars: map[string]string{"TARGET_LOCAL": "true", "PORT": "8080"},
			want: "http://localhost:8080",
		},
		{
			name: "default port",
			vars: map[string]string{"TARGET_LOCAL": "true"},
			want: "http://localhost:8000",
		},
		{
			name: "http default port",
			vars: map[string]string{"TARGET_LOCAL": "true", "TARGET_PORT": "80"},
			want: "http://localhost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RemoteAPIURL(context.Background(), nil, baseResult(t, tt.vars))
			if err != nil {
				t.Fatalf("RemoteAPIURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RemoteAPIURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoteAPIURLUnconfigured(t *testing.T) {
	_, err := RemoteAPIURL(context.Background(), nil, baseResult(t, map[string]string{}))
	var loadErr *envload.Error
	if !errors.As(err, &loadErr) {
		t.Fatalf("RemoteAPIURL() error = %T, want *envload.Error", err)
	}
	if loadErr.Kind != envload.KindRemoteAPIConfig {
		t.Errorf("Kind = %v, want KindRemoteAPIConfig", loadErr.Kind)
	}
}
