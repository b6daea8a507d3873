package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the credential store backing email/password sign-in.
type AuthMode string

const (
	// AuthModeDemo serves the built-in demo accounts (for development only).
	AuthModeDemo AuthMode = "demo"
	// AuthModePostgres backs accounts with the users table.
	AuthModePostgres AuthMode = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "demo", "postgres":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: demo, postgres)", v)
	}
}

// OAuthProviderConfig contains one social login provider's settings. A
// provider is wired into the router only when both client credentials are set.
//
// OIDC providers (Google) need only DiscoveryURL; plain OAuth2 providers
// (GitHub) set AuthURL, TokenURL, and UserinfoURL instead.
type OAuthProviderConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	AuthURL      string `env:"AUTH_URL"`
	TokenURL     string `env:"TOKEN_URL"`
	UserinfoURL  string `env:"USERINFO_URL"`
}

// Enabled reports whether the provider has credentials configured.
func (o OAuthProviderConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

// VerifyMode selects where verification codes are checked.
type VerifyMode string

const (
	// VerifyModeLocal issues and checks codes against the local Redis store.
	VerifyModeLocal VerifyMode = "local"
	// VerifyModeRemote delegates code checks to the upstream learning API.
	VerifyModeRemote VerifyMode = "remote"
)

// UnmarshalText implements encoding.TextUnmarshaler for VerifyMode.
func (v *VerifyMode) UnmarshalText(text []byte) error {
	m := strings.ToLower(string(text))
	switch m {
	case "local", "remote":
		*v = VerifyMode(m)
		return nil
	default:
		return fmt.Errorf("invalid VerifyMode: %q (valid options: local, remote)", m)
	}
}

// VerificationConfig controls the email verification flow.
type VerificationConfig struct {
	// Mode picks local (Redis-backed) or remote (learning API) code checks.
	Mode VerifyMode `env:"VERIFY_MODE" envDefault:"local"`

	// CodeTTL is the validity window of an issued code.
	CodeTTL time.Duration `env:"VERIFY_CODE_TTL" envDefault:"60s"`

	// MailerURL is the webhook endpoint that delivers code emails.
	MailerURL string `env:"VERIFY_MAILER_URL"`

	// MailerFrom is the From address on code emails.
	MailerFrom string `env:"VERIFY_MAILER_FROM" envDefault:"no-reply@linguahub.app"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which credential store backs sign-in.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"demo"`

	// SessionSecret signs session tokens. Required.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// SessionMaxAge is the session token lifetime.
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"720h"`

	// Google OAuth configuration (OIDC discovery).
	Google OAuthProviderConfig `envPrefix:"GOOGLE_"`

	// GitHub OAuth configuration (explicit endpoints).
	GitHub OAuthProviderConfig `envPrefix:"GITHUB_"`

	// Verification flow configuration.
	Verification VerificationConfig
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionMaxAge <= 0 {
		a.SessionMaxAge = 720 * time.Hour
	}
	if a.Verification.CodeTTL <= 0 {
		a.Verification.CodeTTL = 60 * time.Second
	}
}
