package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewCustom([]byte("test-signing-key"))

	token, err := p.TokenFor(ctx, "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("TokenFor() error = %v", err)
	}
	if token.Email != "alice@example.com" {
		t.Errorf("token.Email = %q, want %q", token.Email, "alice@example.com")
	}
	if token.Provider != "custom" {
		t.Errorf("token.Provider = %q, want %q", token.Provider, "custom")
	}

	id, err := p.ValidateToken(ctx, token.Value)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if id.Email != "alice@example.com" {
		t.Errorf("id.Email = %q, want %q", id.Email, "alice@example.com")
	}
	if id.UID != "alice@example.com" {
		t.Errorf("id.UID = %q, want %q", id.UID, "alice@example.com")
	}
	if id.Name != "alice" {
		t.Errorf("id.Name = %q, want %q", id.Name, "alice")
	}
	if id.Provider != "custom" {
		t.Errorf("id.Provider = %q, want %q", id.Provider, "custom")
	}
	if id.ExpiresAt.IsZero() {
		t.Error("id.ExpiresAt is zero, want expiry set")
	}
}

func TestTestTokenUsesDefaultUser(t *testing.T) {
	ctx := context.Background()
	p := NewCustom([]byte("test-signing-key"))

	token, err := p.TestToken(ctx)
	if err != nil {
		t.Fatalf("TestToken() error = %v", err)
	}
	if token.Email != defaultTestEmail {
		t.Errorf("token.Email = %q, want %q", token.Email, defaultTestEmail)
	}

	id, err := p.ValidateToken(ctx, token.Value)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if id.Name != "test-user" {
		t.Errorf("id.Name = %q, want %q", id.Name, "test-user")
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	ctx := context.Background()
	issuer := NewCustom([]byte("signing-key-a"))
	verifier := NewCustom([]byte("signing-key-b"))

	token, err := issuer.TokenFor(ctx, "alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("TokenFor() error = %v", err)
	}

	if _, err := verifier.ValidateToken(ctx, token.Value); err == nil {
		t.Error("ValidateToken() with wrong key succeeded, want error")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	ctx := context.Background()
	p := NewCustom([]byte("test-signing-key"))

	token, err := p.TokenFor(ctx, "alice@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("TokenFor() error = %v", err)
	}

	_, err = p.ValidateToken(ctx, token.Value)
	if err == nil {
		t.Fatal("ValidateToken() with expired token succeeded, want error")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("ValidateToken() error = %v, want jwt.ErrTokenExpired", err)
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-signing-key")

	claims := customClaims{
		Email: "alice@example.com",
		UID:   "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "alice@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	p := NewCustom(secret)
	if _, err := p.ValidateToken(ctx, signed); err == nil {
		t.Error("ValidateToken() with wrong issuer succeeded, want error")
	}
}

func TestFirebaseNotImplemented(t *testing.T) {
	ctx := context.Background()
	p := NewFirebase()

	if _, err := p.ValidateToken(ctx, "dummy"); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("ValidateToken() error = %v, want ErrNotImplemented", err)
	}
	if _, err := p.TestToken(ctx); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("TestToken() error = %v, want ErrNotImplemented", err)
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     string
		wantErr  bool
	}{
		{name: "custom", provider: "custom", want: "custom"},
		{name: "firebase", provider: "firebase", want: "firebase"},
		{name: "unknown", provider: "auth0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ForName(tt.provider, []byte("key"))
			if tt.wantErr {
				if err == nil {
					t.Fatal("ForName() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ForName() error = %v", err)
			}
			if got := p.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
