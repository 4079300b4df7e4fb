package config

import (
	"testing"

	"github.com/yacchi/jubako"
)

// newTestStore はユーザー設定とプロジェクト設定を隔離したストアを作成する
func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	store, err := newConfigStore()
	if err != nil {
		t.Fatalf("newConfigStore failed: %v", err)
	}
	return store
}

func TestJubakoStoreLoad(t *testing.T) {
	// テスト用に環境変数をクリア（t.Setenvは元の値を自動復元する）
	t.Setenv("EDEN_CONFIG_ENV", "")

	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	resolved := store.Resolved()
	if resolved == nil {
		t.Fatal("Resolved returned nil")
	}

	// デフォルト設定が適用されていることを確認
	display := store.Display()
	if display == nil {
		t.Fatal("Display returned nil")
	}
	if display.Output != "text" {
		t.Errorf("Output = %q, want %q", display.Output, "text")
	}
	if display.Color != "auto" {
		t.Errorf("Color = %q, want %q", display.Color, "auto")
	}

	cloud := store.Cloud()
	if cloud.Region == "" {
		t.Error("Cloud.Region should have a default value")
	}
}

func TestJubakoStoreEnvOverrides(t *testing.T) {
	t.Setenv("EDEN_CONFIG_ENV", "dev")

	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	core := store.Core()
	if core.ConfigEnv != "dev" {
		t.Errorf("ConfigEnv = %q, want %q", core.ConfigEnv, "dev")
	}
}

func TestEnvShortcuts(t *testing.T) {
	// ショートカット環境変数のテスト
	// EDEN_ENV は EDEN_CONFIG_ENV に展開される
	t.Setenv("EDEN_ENV", "staging")
	t.Setenv("EDEN_CONFIG_ENV", "")

	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	core := store.Core()
	if core.ConfigEnv != "staging" {
		t.Errorf("ConfigEnv = %q, want %q", core.ConfigEnv, "staging")
	}
}

func TestEnvShortcutsPriority(t *testing.T) {
	// 完全形式が設定されている場合は、ショートカットより優先
	t.Setenv("EDEN_ENV", "shortcut-env")
	t.Setenv("EDEN_CONFIG_ENV", "full-form-env")

	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	core := store.Core()
	if core.ConfigEnv != "full-form-env" {
		t.Errorf("ConfigEnv = %q, want %q (full form should take priority)", core.ConfigEnv, "full-form-env")
	}
}

func TestJubakoStoreReload(t *testing.T) {
	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	// Reloadしても問題ないことを確認
	if err := store.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
}

func TestSetFlagsLayer(t *testing.T) {
	ctx := t.Context()
	store := newTestStore(t)

	if err := store.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	setOptions := []jubako.SetOption{
		jubako.String(PathDisplayOutput, "json"),
	}
	if err := store.SetFlagsLayer(setOptions); err != nil {
		t.Fatalf("SetFlagsLayer failed: %v", err)
	}

	display := store.Display()
	if display.Output != "json" {
		t.Errorf("Output = %q, want %q", display.Output, "json")
	}
}

func TestDotToPointer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "nested", in: "display.output", want: "/display/output"},
		{name: "single", in: "core", want: "/core"},
		{name: "deep", in: "cloud.image_repository", want: "/cloud/image_repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DotToPointer(tt.in); got != tt.want {
				t.Errorf("DotToPointer(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
