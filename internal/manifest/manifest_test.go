package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestMergedEnvironments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, AppEnvironmentsPath(dir), `
environments:
  dev:
    project_id: my-dev-project
    app_port: 9000
  staging:
    custom_auth_enabled: true
    stub_ai: false
    stub_db: false
`)

	merged, err := MergedEnvironments(dir)
	if err != nil {
		t.Fatalf("MergedEnvironments: %v", err)
	}

	dev, ok := merged["dev"]
	if !ok {
		t.Fatal("dev environment missing from merged result")
	}
	if got, want := dev["project_id"], "my-dev-project"; got != want {
		t.Errorf("app override lost: project_id = %v, want %v", got, want)
	}
	if got, want := dev["custom_auth_enabled"], true; got != want {
		t.Errorf("sdk value lost: custom_auth_enabled = %v, want %v", got, want)
	}
	if _, ok := merged["staging"]; !ok {
		t.Error("app-only environment staging missing from merged result")
	}
	if _, ok := merged["unit-testing"]; !ok {
		t.Error("sdk environment unit-testing missing from merged result")
	}
}

func TestEnvironmentUnknown(t *testing.T) {
	dir := t.TempDir()

	_, err := Environment(dir, "nope")
	if err == nil {
		t.Fatal("expected error for unknown environment")
	}
	var unknownErr *UnknownEnvironmentError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *UnknownEnvironmentError", err)
	}
	found := false
	for _, name := range unknownErr.Available {
		if name == "unit-testing" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available = %v, want to contain unit-testing", unknownErr.Available)
	}
}

func TestAppEnvironmentsMissing(t *testing.T) {
	dir := t.TempDir()

	envs, err := AppEnvironments(dir)
	if err != nil {
		t.Fatalf("AppEnvironments: %v", err)
	}
	if len(envs) != 0 {
		t.Errorf("envs = %v, want empty", envs)
	}
}

func TestLoadApp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, AppPath(dir), `
id: example-app
name: Example App
secrets:
  manager: google
api:
  port: 8080
`)

	app, err := LoadApp(dir)
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if got, want := app.ID, "example-app"; got != want {
		t.Errorf("ID = %q, want %q", got, want)
	}
	if got, want := app.SecretsManager(), "google"; got != want {
		t.Errorf("SecretsManager() = %q, want %q", got, want)
	}
	if got, want := app.API.Port, 8080; got != want {
		t.Errorf("API.Port = %d, want %d", got, want)
	}
}

func TestLoadAppMissingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, AppPath(dir), "name: No ID\n")

	if _, err := LoadApp(dir); err == nil {
		t.Fatal("expected error for app.yaml without id")
	}
}

func TestLoadAppMissingFile(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadApp(dir); err == nil {
		t.Fatal("expected error for missing app.yaml")
	}
}

func TestSecretsManagerDefault(t *testing.T) {
	app := &App{ID: "x"}
	if got, want := app.SecretsManager(), "local"; got != want {
		t.Errorf("SecretsManager() = %q, want %q", got, want)
	}
}

func TestLoadTestsFallback(t *testing.T) {
	dir := t.TempDir()

	tests, err := LoadTests(dir)
	if err != nil {
		t.Fatalf("LoadTests: %v", err)
	}
	mode, err := tests.Mode("unit")
	if err != nil {
		t.Fatalf("Mode(unit): %v", err)
	}
	if got, want := mode.Env, "unit-testing"; got != want {
		t.Errorf("unit mode env = %q, want %q", got, want)
	}
}

func TestLoadTestsAppFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, TestsPath(dir), `
modes:
  integration:
    description: Integration tests against a local server
    env: local-server
    paths:
      - ./tests/integration/...
    vars:
      TEST_API_MODE: REMOTE
`)

	tests, err := LoadTests(dir)
	if err != nil {
		t.Fatalf("LoadTests: %v", err)
	}

	// アプリケーション側のファイルは SDK 定義を置き換える
	if _, err := tests.Mode("unit"); err == nil {
		t.Error("unit mode should not survive when config/tests.yaml exists")
	}

	mode, err := tests.Mode("integration")
	if err != nil {
		t.Fatalf("Mode(integration): %v", err)
	}
	if got, want := mode.Vars["TEST_API_MODE"], "REMOTE"; got != want {
		t.Errorf("vars[TEST_API_MODE] = %v, want %v", got, want)
	}
}

func TestModeUnknown(t *testing.T) {
	dir := t.TempDir()

	tests, err := LoadTests(dir)
	if err != nil {
		t.Fatalf("LoadTests: %v", err)
	}
	_, err = tests.Mode("nope")
	var unknownErr *UnknownTestModeError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error type = %T, want *UnknownTestModeError", err)
	}
	if !strings.Contains(err.Error(), "unit") {
		t.Errorf("error = %q, want available list to contain unit", err)
	}
}

func TestLoadTasks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, TasksPath(dir), `
tasks:
  seed-db:
    description: Seed the development database
    env: dev
    vars:
      BATCH_SIZE: 100
`)

	tasks, err := LoadTasks(dir)
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if got, want := tasks.DefaultEnv("seed-db"), "dev"; got != want {
		t.Errorf("DefaultEnv(seed-db) = %q, want %q", got, want)
	}
	if got, want := tasks.DefaultEnv("nope"), ""; got != want {
		t.Errorf("DefaultEnv(nope) = %q, want %q", got, want)
	}
}

func TestLoadTasksMissing(t *testing.T) {
	dir := t.TempDir()

	tasks, err := LoadTasks(dir)
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if len(tasks.Tasks) != 0 {
		t.Errorf("tasks = %v, want empty", tasks.Tasks)
	}
}

func TestModelsService(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, ModelsPath(dir), `
ai_models:
  available:
    gemini-2.5-flash:
      name: Gemini 2.5 Flash
      description: Fast general purpose model
      provider: google
services:
  summarize:
    default_model: gemini-2.5-flash
    prompt: prompts/summarize.txt
  broken:
    prompt: prompts/broken.txt
`)

	models, err := LoadModels(dir)
	if err != nil {
		t.Fatalf("LoadModels: %v", err)
	}

	svc, err := models.Service("summarize")
	if err != nil {
		t.Fatalf("Service(summarize): %v", err)
	}
	if got, want := svc.DefaultModel, "gemini-2.5-flash"; got != want {
		t.Errorf("DefaultModel = %q, want %q", got, want)
	}

	if _, err := models.Service("broken"); err == nil {
		t.Error("expected error for service without default_model")
	}
	if _, err := models.Service("nope"); err == nil {
		t.Error("expected error for undefined service")
	}

	if got, want := models.AvailableModelIDs(), []string{"gemini-2.5-flash"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("AvailableModelIDs() = %v, want %v", got, want)
	}
}

func TestLoadModelsMissing(t *testing.T) {
	dir := t.TempDir()

	models, err := LoadModels(dir)
	if err != nil {
		t.Fatalf("LoadModels: %v", err)
	}
	if len(models.AvailableModelIDs()) != 0 {
		t.Errorf("models = %v, want empty", models.AIModels.Available)
	}
}
