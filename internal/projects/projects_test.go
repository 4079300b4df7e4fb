package projects

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookupFileNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := Lookup(dir, "dev")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestLookupNotRegistered(t *testing.T) {
	dir := t.TempDir()
	content := "# Project IDs for different environments\ndev=my-dev-project\n"
	if err := os.WriteFile(Path(dir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Lookup(dir, "prod")
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\ndev = my-dev-project\nprod=my-prod-project\nbroken line\n"
	if err := os.WriteFile(Path(dir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		env  string
		want string
	}{
		{"dev", "my-dev-project"},
		{"prod", "my-prod-project"},
	}
	for _, tt := range tests {
		got, err := Lookup(dir, tt.env)
		if err != nil {
			t.Errorf("Lookup(%q): %v", tt.env, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestRegisterCreatesFile(t *testing.T) {
	dir := t.TempDir()

	result, err := Register(dir, "dev", "my-dev-project")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !result.Created {
		t.Error("Created = false, want true")
	}
	if !result.GitignoreUpdated {
		t.Error("GitignoreUpdated = false, want true")
	}

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# Project IDs") {
		t.Errorf("file should start with a header comment, got %q", content)
	}
	if !strings.Contains(content, "dev=my-dev-project\n") {
		t.Errorf("file missing entry, got %q", content)
	}

	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ignore), ".projects\n") {
		t.Errorf(".gitignore missing .projects entry, got %q", ignore)
	}
}

func TestRegisterReplacesEntry(t *testing.T) {
	dir := t.TempDir()
	content := "# header\ndev=old-project\nprod=my-prod-project\n"
	if err := os.WriteFile(Path(dir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Register(dir, "dev", "new-project"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := Lookup(dir, "dev")
	if err != nil {
		t.Fatal(err)
	}
	if want := "new-project"; got != want {
		t.Errorf("Lookup(dev) = %q, want %q", got, want)
	}

	// 既存のエントリは保持される
	if got, _ := Lookup(dir, "prod"); got != "my-prod-project" {
		t.Errorf("Lookup(prod) = %q, want my-prod-project", got)
	}

	entries, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %v, want 2 entries", entries)
	}
}

func TestRegisterGitignoreIdempotent(t *testing.T) {
	dir := t.TempDir()

	if _, err := Register(dir, "dev", "p1"); err != nil {
		t.Fatal(err)
	}
	result, err := Register(dir, "prod", "p2")
	if err != nil {
		t.Fatal(err)
	}
	if result.GitignoreUpdated {
		t.Error("GitignoreUpdated = true on second call, want false")
	}

	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(ignore), ".projects"); n != 1 {
		t.Errorf(".gitignore contains %d .projects entries, want 1", n)
	}
}

func TestRegisterKeepsExistingGitignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Register(dir, "dev", "p1"); err != nil {
		t.Fatal(err)
	}

	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(ignore)
	if !strings.Contains(content, "node_modules/") {
		t.Errorf("existing entries lost: %q", content)
	}
	if !strings.Contains(content, ".projects") {
		t.Errorf(".projects not appended: %q", content)
	}
}
