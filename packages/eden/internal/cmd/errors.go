package cmd

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yacchi/eden-cli/internal/auth"
	"github.com/yacchi/eden-cli/internal/envload"
	"github.com/yacchi/eden-cli/internal/secrets"
	"github.com/yacchi/eden-cli/internal/ui"
)

// ExitCode はエラーの終了コード
type ExitCode int

const (
	ExitOK       ExitCode = 0
	ExitError    ExitCode = 1
	ExitAuth     ExitCode = 2
	ExitNotFound ExitCode = 3
	ExitConfig   ExitCode = 4
)

// HandleError はエラーを処理して適切なメッセージを表示する
func HandleError(err error) ExitCode {
	if err == nil {
		return ExitOK
	}

	var cfgErr *envload.Error
	if errors.As(err, &cfgErr) {
		return handleConfigError(cfgErr)
	}

	if code, handled := handleSecretsError(err); handled {
		return code
	}

	if isTokenError(err) {
		ui.Error("%v", err)
		return ExitAuth
	}

	if errors.Is(err, auth.ErrNotImplemented) {
		ui.Error("%v", err)
		return ExitError
	}

	// 一般的なエラー
	ui.Error("%v", err)
	return ExitError
}

func handleConfigError(err *envload.Error) ExitCode {
	ui.Error("%v", err)
	if guidance := err.Guidance(); guidance != "" {
		ui.Info("%s", guidance)
	}
	return ExitConfig
}

func handleSecretsError(err error) (ExitCode, bool) {
	switch {
	case errors.Is(err, secrets.ErrNotFound):
		ui.Error("%v", err)
		ui.Info("Store it first with 'eden secrets set <name>'.")
		return ExitNotFound, true
	case errors.Is(err, secrets.ErrPassphraseRequired):
		ui.Error("%v", err)
		ui.Info("Cache the vault key with 'eden secrets cache-key'.")
		return ExitConfig, true
	case errors.Is(err, secrets.ErrInvalidPassphrase):
		ui.Error("%v", err)
		ui.Info("Re-cache the key with 'eden secrets cache-key'. If the passphrase is lost, remove .secrets and store the secrets again.")
		return ExitConfig, true
	case errors.Is(err, secrets.ErrProjectRequired):
		ui.Error("%v", err)
		ui.Info("Set PROJECT_ID in the environment config or register it with 'eden projects register'.")
		return ExitConfig, true
	}
	return ExitOK, false
}

func isTokenError(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenInvalidIssuer)
}
