package auth

import (
	"context"

	"github.com/go-faster/errors"
)

// FirebaseProvider は Firebase Authentication のプレースホルダ実装
// すべての操作が ErrNotImplemented を返す
type FirebaseProvider struct{}

// NewFirebase は FirebaseProvider を作成する
func NewFirebase() *FirebaseProvider {
	return &FirebaseProvider{}
}

// Name はプロバイダ名を返す
func (p *FirebaseProvider) Name() string {
	return "firebase"
}

// ValidateToken は未実装
func (p *FirebaseProvider) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	return nil, errors.Wrap(ErrNotImplemented, "firebase token validation")
}

// TestToken は未実装
func (p *FirebaseProvider) TestToken(ctx context.Context) (*Token, error) {
	return nil, errors.Wrap(ErrNotImplemented, "firebase test tokens")
}
