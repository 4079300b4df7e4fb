// Package auth はテストユーザー向け認証トークンの発行と検証を行う
package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/secrets"
)

// JWTSecretName は署名鍵として使うシークレット名
const JWTSecretName = "jwt-secret-key"

// ErrNotImplemented は未実装のプロバイダ操作を表す
var ErrNotImplemented = errors.New("not implemented")

// Identity は検証済みトークンから取り出したユーザー情報
type Identity struct {
	UID       string
	Email     string
	Name      string
	Provider  string
	ExpiresAt time.Time
}

// Token は発行済みのトークンとそのメタデータ
type Token struct {
	Value     string
	Email     string
	Provider  string
	ExpiresAt time.Time
}

// Provider は認証プロバイダの共通インターフェース
type Provider interface {
	// Name はプロバイダ名（custom / firebase）を返す
	Name() string
	ValidateToken(ctx context.Context, token string) (*Identity, error)
	TestToken(ctx context.Context) (*Token, error)
}

// ForName は名前を指定してプロバイダを作成する
func ForName(name string, secret []byte) (Provider, error) {
	switch name {
	case "custom":
		return NewCustom(secret), nil
	case "firebase":
		return NewFirebase(), nil
	default:
		return nil, errors.Errorf("unknown auth provider: %q", name)
	}
}

// StaticTestUserToken は環境設定を解決して静的テストユーザーのトークンを発行する
//
// 環境の CUSTOM_AUTH_ENABLED が true でない場合は ErrNotImplemented を返す。
// email が空の場合は既定のテストユーザーを使う
func StaticTestUserToken(ctx context.Context, dir, envName, email string) (*Token, error) {
	result, err := envload.Load(ctx, envName,
		envload.WithWorkDir(dir),
		envload.WithQuiet(),
	)
	if err != nil {
		return nil, err
	}
	// google マネージャが PROJECT_ID を参照できるよう環境へ反映する
	if err := result.Apply(); err != nil {
		return nil, err
	}

	if result.Value("CUSTOM_AUTH_ENABLED") != "true" {
		return nil, errors.Wrap(ErrNotImplemented, "firebase test tokens")
	}

	m, err := secrets.Open(dir)
	if err != nil {
		return nil, err
	}
	signingKey, err := m.Get(ctx, JWTSecretName)
	if err != nil {
		return nil, envload.NewSecretError(err, envName, JWTSecretName, m.Type())
	}

	provider := NewCustom([]byte(signingKey))
	if email != "" {
		return provider.TokenFor(ctx, email, defaultTokenTTL)
	}
	return provider.TestToken(ctx)
}
