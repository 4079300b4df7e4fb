package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuerCustomAuth = "eden-custom-auth"
	defaultTestEmail = "test-user@example.com"
	defaultTokenTTL  = 24 * time.Hour
)

// CustomProvider は HS256 署名の自己発行トークンを扱う
type CustomProvider struct {
	secret []byte
}

// NewCustom は署名鍵を指定して CustomProvider を作成する
func NewCustom(secret []byte) *CustomProvider {
	return &CustomProvider{secret: secret}
}

// Name はプロバイダ名を返す
func (p *CustomProvider) Name() string {
	return "custom"
}

type customClaims struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenFor は任意のメールアドレスと有効期間でトークンを発行する
func (p *CustomProvider) TokenFor(ctx context.Context, email string, ttl time.Duration) (*Token, error) {
	now := time.Now()
	localPart, _, _ := strings.Cut(email, "@")
	claims := customClaims{
		Email: email,
		UID:   email,
		Name:  localPart,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerCustomAuth,
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &Token{
		Value:     signed,
		Email:     email,
		Provider:  p.Name(),
		ExpiresAt: now.Add(ttl),
	}, nil
}

// TestToken は既定のテストユーザーのトークンを発行する
func (p *CustomProvider) TestToken(ctx context.Context) (*Token, error) {
	return p.TokenFor(ctx, defaultTestEmail, defaultTokenTTL)
}

// ValidateToken はトークンを検証してユーザー情報を返す
func (p *CustomProvider) ValidateToken(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &customClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuerCustomAuth))
	if err != nil {
		return nil, errors.Wrap(err, "validate token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Identity{
		UID:       claims.UID,
		Email:     claims.Email,
		Name:      claims.Name,
		Provider:  p.Name(),
		ExpiresAt: expiresAt,
	}, nil
}
