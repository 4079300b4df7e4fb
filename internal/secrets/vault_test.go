package secrets

import (
	"context"
	"errors"
	"os"
	"testing"
)

func newTestVault(t *testing.T) *LocalManager {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	return NewLocal(t.TempDir())
}

func TestVaultGetWithoutCachedKey(t *testing.T) {
	m := newTestVault(t)

	_, err := m.Get(context.Background(), "api-key")
	if !errors.Is(err, ErrPassphraseRequired) {
		t.Errorf("err = %v, want ErrPassphraseRequired", err)
	}
}

func TestVaultRoundTrip(t *testing.T) {
	m := newTestVault(t)
	ctx := context.Background()

	if err := m.CacheKey("correct horse battery"); err != nil {
		t.Fatalf("CacheKey: %v", err)
	}

	if err := m.Set(ctx, "jwt-secret-key", "super-secret"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "api-key", "abc123"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := m.Get(ctx, "jwt-secret-key")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := "super-secret"; got != want {
		t.Errorf("Get = %q, want %q", got, want)
	}

	exists, err := m.Exists(ctx, "api-key")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("Exists = false, want true")
	}

	names, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "api-key" || names[1] != "jwt-secret-key" {
		t.Errorf("List = %v, want sorted [api-key jwt-secret-key]", names)
	}

	if err := m.Delete(ctx, "api-key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(ctx, "api-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, "api-key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete twice = %v, want ErrNotFound", err)
	}
}

func TestVaultGetUnknownSecret(t *testing.T) {
	m := newTestVault(t)
	ctx := context.Background()

	if err := m.CacheKey("pass"); err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	if _, err := m.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCacheKeyValidatesAgainstVault(t *testing.T) {
	m := newTestVault(t)
	ctx := context.Background()

	if err := m.CacheKey("right"); err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	if err := m.Set(ctx, "api-key", "v1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := m.CacheKey("wrong"); !errors.Is(err, ErrInvalidPassphrase) {
		t.Errorf("CacheKey(wrong) = %v, want ErrInvalidPassphrase", err)
	}

	// 正しいパスフレーズなら再キャッシュできる
	if err := m.CacheKey("right"); err != nil {
		t.Errorf("CacheKey(right) = %v, want nil", err)
	}
}

func TestRotateKey(t *testing.T) {
	m := newTestVault(t)
	ctx := context.Background()

	if err := m.CacheKey("old-pass"); err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	if err := m.Set(ctx, "api-key", "keep-me"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := m.RotateKey(ctx, "wrong", "new-pass"); !errors.Is(err, ErrInvalidPassphrase) {
		t.Fatalf("RotateKey with wrong passphrase = %v, want ErrInvalidPassphrase", err)
	}

	if err := m.RotateKey(ctx, "old-pass", "new-pass"); err != nil {
		t.Fatalf("RotateKey: %v", err)
	}

	// ローテーション後もキャッシュ鍵で読める
	got, err := m.Get(ctx, "api-key")
	if err != nil {
		t.Fatalf("Get after rotate: %v", err)
	}
	if want := "keep-me"; got != want {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// 旧パスフレーズでは開けない
	if err := m.CacheKey("old-pass"); !errors.Is(err, ErrInvalidPassphrase) {
		t.Errorf("CacheKey(old-pass) = %v, want ErrInvalidPassphrase", err)
	}
}

func TestVaultFileMode(t *testing.T) {
	m := newTestVault(t)
	ctx := context.Background()

	if err := m.CacheKey("pass"); err != nil {
		t.Fatalf("CacheKey: %v", err)
	}
	if err := m.Set(ctx, "api-key", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	info, err := os.Stat(m.VaultPath())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Errorf("vault mode = %v, want %v", got, want)
	}

	info, err = os.Stat(m.CachedKeyPath())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := info.Mode().Perm(), os.FileMode(0o600); got != want {
		t.Errorf("key file mode = %v, want %v", got, want)
	}
}
