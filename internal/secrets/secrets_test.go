package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAppYAML(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "app.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOpenDefaultsToLocal(t *testing.T) {
	dir := t.TempDir()

	m, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got, want := m.Type(), "local"; got != want {
		t.Errorf("Type() = %q, want %q", got, want)
	}
}

func TestOpenGoogleRequiresProjectID(t *testing.T) {
	dir := t.TempDir()
	writeAppYAML(t, dir, "id: example-app\nsecrets:\n  manager: google\n")
	t.Setenv("PROJECT_ID", "")

	_, err := Open(dir)
	if !errors.Is(err, ErrProjectRequired) {
		t.Errorf("err = %v, want ErrProjectRequired", err)
	}
}

func TestOpenGoogle(t *testing.T) {
	dir := t.TempDir()
	writeAppYAML(t, dir, "id: example-app\nsecrets:\n  manager: google\n")
	t.Setenv("PROJECT_ID", "my-project")

	m, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	g, ok := m.(*GoogleManager)
	if !ok {
		t.Fatalf("manager type = %T, want *GoogleManager", m)
	}
	if got, want := g.ProjectID(), "my-project"; got != want {
		t.Errorf("ProjectID() = %q, want %q", got, want)
	}
}

func TestOpenUnknownManager(t *testing.T) {
	dir := t.TempDir()
	writeAppYAML(t, dir, "id: example-app\nsecrets:\n  manager: vault9000\n")

	if _, err := Open(dir); err == nil {
		t.Error("expected error for unknown manager type")
	}
}

func TestDefaultSingleton(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(Reset)
	Reset()

	m1, err := Default(dir)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	m2, err := Default(dir)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if m1 != m2 {
		t.Error("Default returned different instances")
	}

	Reset()
	m3, err := Default(dir)
	if err != nil {
		t.Fatalf("Default after Reset: %v", err)
	}
	if m1 == m3 {
		t.Error("Reset did not discard the shared manager")
	}
}
