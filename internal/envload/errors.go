package envload

import (
	"fmt"
	"strings"
)

// Kind は設定解決エラーの種別
type Kind int

const (
	KindUnknown Kind = iota
	// KindEnvironmentNotFound は未定義の環境名が指定された
	KindEnvironmentNotFound
	// KindProjectsFileNotFound は $.projects 参照があるのに .projects が存在しない
	KindProjectsFileNotFound
	// KindProjectNotRegistered は .projects に対象環境のエントリが無い
	KindProjectNotRegistered
	// KindSecretUnavailable はシークレットマネージャ自体が失敗した
	KindSecretUnavailable
	// KindSecretNotFound は参照されたシークレットが存在しない
	KindSecretNotFound
	// KindPassphraseRequired はローカルボールトの鍵がキャッシュされていない
	KindPassphraseRequired
	// KindInvalidPassphrase はキャッシュ鍵またはパスフレーズでボールトを開けない
	KindInvalidPassphrase
	// KindDynamicNotFound は task-func 参照先の動的値が登録されていない
	KindDynamicNotFound
	// KindCallbackFailed はコールバックまたは動的値の実行が失敗した
	KindCallbackFailed
	// KindRemoteAPIConfig はリモート API テストの URL を導出できない
	KindRemoteAPIConfig
	// KindEnvironmentCorrupted は適用済みの変数が外部で書き換えられた
	KindEnvironmentCorrupted
)

func (k Kind) String() string {
	switch k {
	case KindEnvironmentNotFound:
		return "environment-not-found"
	case KindProjectsFileNotFound:
		return "projects-file-not-found"
	case KindProjectNotRegistered:
		return "project-not-registered"
	case KindSecretUnavailable:
		return "secret-unavailable"
	case KindSecretNotFound:
		return "secret-not-found"
	case KindPassphraseRequired:
		return "passphrase-required"
	case KindInvalidPassphrase:
		return "invalid-passphrase"
	case KindDynamicNotFound:
		return "dynamic-not-found"
	case KindCallbackFailed:
		return "callback-failed"
	case KindRemoteAPIConfig:
		return "remote-api-config"
	case KindEnvironmentCorrupted:
		return "environment-corrupted"
	default:
		return "unknown"
	}
}

// Error は設定解決の失敗を種別と診断情報付きで表す
type Error struct {
	Kind               Kind
	Env                string
	Variable           string
	Layer              string
	SecretName         string
	Provider           string
	ProjectsFileExists bool
	MissingVars        []string
	CorruptedVars      []string
	Profile            string
	Available          []string
	Err                error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEnvironmentNotFound:
		return fmt.Sprintf("unknown config environment %q (available: %s)", e.Env, strings.Join(e.Available, ", "))
	case KindProjectsFileNotFound:
		return fmt.Sprintf("no .projects file found (variable %s references a project id)", e.Variable)
	case KindProjectNotRegistered:
		return fmt.Sprintf("no project id registered for variable %s: %v", e.Variable, e.Err)
	case KindSecretUnavailable:
		return fmt.Sprintf("secrets manager failed for %q (variable %s): %v", e.SecretName, e.Variable, e.Err)
	case KindSecretNotFound:
		return fmt.Sprintf("secret %q not found (variable %s)", e.SecretName, e.Variable)
	case KindPassphraseRequired:
		return fmt.Sprintf("local secrets vault is locked (variable %s needs secret %q)", e.Variable, e.SecretName)
	case KindInvalidPassphrase:
		return "cached vault key does not match the secrets vault"
	case KindDynamicNotFound:
		return fmt.Sprintf("%v (variable %s, registered: %s)", e.Err, e.Variable, strings.Join(e.Available, ", "))
	case KindCallbackFailed:
		if e.Variable != "" {
			return fmt.Sprintf("dynamic value failed for variable %s: %v", e.Variable, e.Err)
		}
		return fmt.Sprintf("post-load callback failed: %v", e.Err)
	case KindRemoteAPIConfig:
		return fmt.Sprintf("cannot derive remote API URL for %s (missing: %s)", e.Profile, strings.Join(e.MissingVars, ", "))
	case KindEnvironmentCorrupted:
		return fmt.Sprintf("managed environment variables were modified outside the loader: %s", strings.Join(e.CorruptedVars, ", "))
	default:
		if e.Err != nil {
			return fmt.Sprintf("configuration error: %v", e.Err)
		}
		return "configuration error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Guidance は対処方法の説明文を返す
func (e *Error) Guidance() string {
	switch e.Kind {
	case KindEnvironmentNotFound:
		var b strings.Builder
		b.WriteString("Define the environment in config/environments.yaml or use one of:\n")
		for _, name := range e.Available {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
		return strings.TrimRight(b.String(), "\n")
	case KindProjectsFileNotFound:
		return `No .projects file exists in this repository.

  1. Register the project id for this environment:
       eden projects register <env> <project-id>
     This creates .projects and adds it to .gitignore.
  2. Re-run the command.`
	case KindProjectNotRegistered:
		return `.projects exists but has no entry for this environment.

  eden projects register <env> <project-id>`
	case KindSecretUnavailable:
		return `The secrets manager could not be reached.

  - google: check "gcloud auth list" and access to the project
  - local:  check the .secrets file is readable`
	case KindSecretNotFound:
		if e.Provider == "google" {
			return fmt.Sprintf(`Secret %q does not exist in Google Secret Manager.

  eden secrets set %s --env <env>`, e.SecretName, e.SecretName)
		}
		return fmt.Sprintf(`Secret %q is not in the local vault. Store it first:

  eden secrets set %s`, e.SecretName, e.SecretName)
	case KindPassphraseRequired:
		return `The local secrets vault is locked and no key is cached.

  1. Cache the vault key:
       eden secrets cache-key
  2. Re-run the command.`
	case KindInvalidPassphrase:
		return `The cached key (or passphrase) does not match the vault.

  1. Re-cache with the correct passphrase:
       eden secrets cache-key
  2. If the passphrase is lost the vault cannot be recovered.
     Remove .secrets and store the secrets again:
       eden secrets set <name>`
	case KindDynamicNotFound:
		return `A task-func: reference points at an unregistered dynamic value.
Register it in the dynamics map passed to the loader, or fix the
reference in the configuration file.`
	case KindCallbackFailed:
		return "Fix the failing callback and re-run. Use --debug for the underlying error."
	case KindRemoteAPIConfig:
		return `TEST_API_MODE=REMOTE needs a resolvable API URL. Provide one of:

  1. A local target:
       LOCAL=true and PORT=<port> in the environment config
  2. A Cloud Run target:
       PROJECT_ID and APP_ID (the URL of service <app-id>-api is used)
  3. An explicit URL:
       TEST_API_URL=<url>`
	case KindEnvironmentCorrupted:
		return `Managed variables changed outside the loader.

  1. Avoid exporting or editing managed variables by hand.
  2. Re-apply the environment, or clear it first with ClearEnv.`
	default:
		return ""
	}
}
