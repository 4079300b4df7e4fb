package eden

import (
	"context"

	"github.com/yacchi/eden-cli/internal/envload"
)

// Result holds the variables resolved for a configuration environment,
// each annotated with the layer that provided it.
type Result = envload.Result

// Variable is a single resolved environment variable.
type Variable = envload.Variable

// Error is a structured configuration error. Use errors.As to obtain it
// and inspect Kind for the failure class; Guidance returns remediation
// steps suitable for display.
type Error = envload.Error

// Kind classifies configuration errors.
type Kind = envload.Kind

// Error kinds reported by LoadEnv and related helpers.
const (
	KindUnknown              = envload.KindUnknown
	KindEnvironmentNotFound  = envload.KindEnvironmentNotFound
	KindProjectsFileNotFound = envload.KindProjectsFileNotFound
	KindProjectNotRegistered = envload.KindProjectNotRegistered
	KindSecretUnavailable    = envload.KindSecretUnavailable
	KindSecretNotFound       = envload.KindSecretNotFound
	KindPassphraseRequired   = envload.KindPassphraseRequired
	KindInvalidPassphrase    = envload.KindInvalidPassphrase
	KindDynamicNotFound      = envload.KindDynamicNotFound
	KindCallbackFailed       = envload.KindCallbackFailed
	KindRemoteAPIConfig      = envload.KindRemoteAPIConfig
	KindEnvironmentCorrupted = envload.KindEnvironmentCorrupted
)

// Layer names recorded as the source of each resolved variable,
// ordered from highest to lowest precedence.
const (
	LayerEnvVar     = envload.LayerEnvVar
	LayerCallback   = envload.LayerCallback
	LayerTestConfig = envload.LayerTestConfig
	LayerTaskConfig = envload.LayerTaskConfig
	LayerAppConfig  = envload.LayerAppConfig
	LayerSDKConfig  = envload.LayerSDKConfig
	LayerBaseConfig = envload.LayerBaseConfig
)

// Callback supplies variables for the callback layer during resolution.
type Callback = envload.Callback

// Dynamic computes a value for a task-func reference during resolution.
type Dynamic = envload.Dynamic

// Option configures a LoadEnv call.
type Option = envload.Option

// LoadEnv resolves environment variables for the named configuration
// environment by merging the layered configuration sources. Variables
// are resolved first-found-wins in layer precedence order; the process
// environment only overrides variables some lower layer defines.
//
// A summary of the resolution is written to stderr unless WithQuiet is
// given. Failures are reported as *Error.
func LoadEnv(ctx context.Context, env string, opts ...Option) (*Result, error) {
	return envload.Load(ctx, env, opts...)
}

// WithTask includes the task-config layer for the named task from
// config/tasks.yaml.
func WithTask(name string) Option { return envload.WithTask(name) }

// WithTestMode includes the test-config layer for the named mode from
// tests.yaml.
func WithTestMode(mode string) Option { return envload.WithTestMode(mode) }

// WithCallback supplies caller-provided variables that take precedence
// over every file-based layer.
func WithCallback(cb Callback) Option { return envload.WithCallback(cb) }

// WithBaseLayer supplies fallback variables consulted after every other
// layer.
func WithBaseLayer(base map[string]string) Option { return envload.WithBaseLayer(base) }

// WithQuiet suppresses the resolution report.
func WithQuiet() Option { return envload.WithQuiet() }

// WithDynamics registers the task-func values available to this load.
func WithDynamics(dynamics map[string]Dynamic) Option { return envload.WithDynamics(dynamics) }

// WithWorkDir sets the directory searched for config/ and .projects.
// It defaults to the current directory.
func WithWorkDir(dir string) Option { return envload.WithWorkDir(dir) }

// WithEnvironFunc replaces the process environment source, mainly for
// tests. It defaults to os.Environ.
func WithEnvironFunc(environ func() []string) Option { return envload.WithEnvironFunc(environ) }

// WithSecretFunc replaces the secrets manager used for secret:
// references, mainly for tests.
func WithSecretFunc(fn func(ctx context.Context, name string) (string, error)) Option {
	return envload.WithSecretFunc(fn)
}

// WithProjectLookup replaces the .projects lookup used for $.projects
// references, mainly for tests.
func WithProjectLookup(fn func(dir, env string) (string, error)) Option {
	return envload.WithProjectLookup(fn)
}

// Applied reports the names of variables set on the process environment
// by Result.Apply, in sorted order.
func Applied() []string { return envload.Applied() }

// CheckEnv verifies that no variable applied to the process environment
// has since been modified externally. It returns a *Error of kind
// KindEnvironmentCorrupted listing the drifted variables, or nil.
func CheckEnv() error { return envload.Check() }

// ClearEnv unsets every variable applied by Result.Apply and resets the
// applied-variable tracking.
func ClearEnv() error { return envload.ClearEnv() }
