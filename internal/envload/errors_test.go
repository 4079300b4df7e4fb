package envload

import (
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEnvironmentNotFound, "environment-not-found"},
		{KindProjectsFileNotFound, "projects-file-not-found"},
		{KindProjectNotRegistered, "project-not-registered"},
		{KindSecretUnavailable, "secret-unavailable"},
		{KindSecretNotFound, "secret-not-found"},
		{KindPassphraseRequired, "passphrase-required"},
		{KindInvalidPassphrase, "invalid-passphrase"},
		{KindDynamicNotFound, "dynamic-not-found"},
		{KindCallbackFailed, "callback-failed"},
		{KindRemoteAPIConfig, "remote-api-config"},
		{KindEnvironmentCorrupted, "environment-corrupted"},
		{KindUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "environment not found lists available",
			err:  &Error{Kind: KindEnvironmentNotFound, Env: "staging", Available: []string{"dev", "prod"}},
			want: []string{"staging", "dev, prod"},
		},
		{
			name: "secret not found names secret and variable",
			err:  &Error{Kind: KindSecretNotFound, SecretName: "jwt-secret-key", Variable: "JWT_SECRET"},
			want: []string{"jwt-secret-key", "JWT_SECRET"},
		},
		{
			name: "remote api lists missing vars",
			err:  &Error{Kind: KindRemoteAPIConfig, Profile: "dev", MissingVars: []string{"PROJECT_ID", "APP_ID"}},
			want: []string{"dev", "PROJECT_ID", "APP_ID"},
		},
		{
			name: "corruption lists variables",
			err:  &Error{Kind: KindEnvironmentCorrupted, CorruptedVars: []string{"APP_ID"}},
			want: []string{"APP_ID"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.want {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want to contain %q", msg, want)
				}
			}
		})
	}
}

func TestGuidance(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "passphrase required points at cache-key",
			err:  &Error{Kind: KindPassphraseRequired, SecretName: "jwt-secret-key"},
			want: "eden secrets cache-key",
		},
		{
			name: "projects file missing points at register",
			err:  &Error{Kind: KindProjectsFileNotFound, Variable: "PROJECT_ID"},
			want: "eden projects register",
		},
		{
			name: "project not registered points at register",
			err:  &Error{Kind: KindProjectNotRegistered, Variable: "PROJECT_ID"},
			want: "eden projects register",
		},
		{
			name: "local secret not found points at set",
			err:  &Error{Kind: KindSecretNotFound, SecretName: "api-key", Provider: "local"},
			want: "eden secrets set api-key",
		},
		{
			name: "google secret not found mentions secret manager",
			err:  &Error{Kind: KindSecretNotFound, SecretName: "api-key", Provider: "google"},
			want: "Google Secret Manager",
		},
		{
			name: "remote api offers TEST_API_URL",
			err:  &Error{Kind: KindRemoteAPIConfig, Profile: "dev", MissingVars: []string{"PROJECT_ID"}},
			want: "TEST_API_URL",
		},
		{
			name: "environment not found lists candidates",
			err:  &Error{Kind: KindEnvironmentNotFound, Env: "x", Available: []string{"dev"}},
			want: "- dev",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Guidance(); !strings.Contains(got, tt.want) {
				t.Errorf("Guidance() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}
