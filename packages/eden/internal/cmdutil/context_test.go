package cmdutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yacchi/eden-cli/internal/config"
)

func testConfig(t *testing.T) *config.Store {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.Load(t.Context())
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func writeTasks(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "tasks.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveConfigEnvFromStore(t *testing.T) {
	t.Setenv("EDEN_CONFIG_ENV", "dev")
	cfg := testConfig(t)

	// The store value wins even when the task declares a default.
	dir := t.TempDir()
	writeTasks(t, dir, "tasks:\n  deploy:\n    env: prod\n")

	env, err := ResolveConfigEnv(cfg, dir, "deploy")
	if err != nil {
		t.Fatalf("ResolveConfigEnv() error = %v", err)
	}
	if env != "dev" {
		t.Errorf("env = %v, want %v", env, "dev")
	}
}

func TestResolveConfigEnvTaskDefault(t *testing.T) {
	cfg := testConfig(t)

	dir := t.TempDir()
	writeTasks(t, dir, "tasks:\n  deploy:\n    env: prod\n")

	env, err := ResolveConfigEnv(cfg, dir, "deploy")
	if err != nil {
		t.Fatalf("ResolveConfigEnv() error = %v", err)
	}
	if env != "prod" {
		t.Errorf("env = %v, want %v", env, "prod")
	}
}

func TestResolveConfigEnvMissing(t *testing.T) {
	cfg := testConfig(t)

	_, err := ResolveConfigEnv(cfg, t.TempDir(), "deploy")
	if err == nil {
		t.Fatal("ResolveConfigEnv() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "no config environment") {
		t.Errorf("error = %v, want mention of missing config environment", err)
	}
}

func TestResolveConfigEnvTaskWithoutEnv(t *testing.T) {
	cfg := testConfig(t)

	dir := t.TempDir()
	writeTasks(t, dir, "tasks:\n  deploy:\n    description: release\n")

	if _, err := ResolveConfigEnv(cfg, dir, "deploy"); err == nil {
		t.Fatal("ResolveConfigEnv() expected error, got nil")
	}
}

func TestAppDirOverride(t *testing.T) {
	t.Setenv("EDEN_APP_DIR", "/srv/app")
	cfg := testConfig(t)

	if dir := AppDir(cfg); dir != "/srv/app" {
		t.Errorf("AppDir() = %v, want %v", dir, "/srv/app")
	}
}

func TestAppDirDefault(t *testing.T) {
	cfg := testConfig(t)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if dir := AppDir(cfg); dir != wd {
		t.Errorf("AppDir() = %v, want working directory %v", dir, wd)
	}
}
