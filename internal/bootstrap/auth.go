package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/linguahub/lingua-ui/config"
	"github.com/linguahub/lingua-ui/internal/adapters/democreds"
	"github.com/linguahub/lingua-ui/internal/adapters/learnapi"
	"github.com/linguahub/lingua-ui/internal/adapters/mailer"
	"github.com/linguahub/lingua-ui/internal/adapters/oauth"
	"github.com/linguahub/lingua-ui/internal/adapters/postgres"
	redisadapter "github.com/linguahub/lingua-ui/internal/adapters/redis"
	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/service"
	"github.com/linguahub/lingua-ui/internal/session"
)

// AuthDeps groups the external connections the auth stack can draw on.
// DB may be nil in demo mode; Redis may be nil in remote verification mode.
type AuthDeps struct {
	Config  *config.AppConfig
	DB      *sql.DB
	Redis   *redis.Client
	API     *learnapi.Client
	Auditor ports.Auditor
	Logger  *slog.Logger
}

// BuildSessionCodec constructs the session token codec from configuration.
func BuildSessionCodec(cfg *config.AppConfig) (*session.Codec, error) {
	return session.NewCodec(session.Config{
		Secret: cfg.Auth.SessionSecret,
		MaxAge: cfg.Auth.SessionMaxAge,
	})
}

// BuildAuthService wires the credential store, OAuth providers, and session
// codec into the auth service.
func BuildAuthService(ctx context.Context, deps AuthDeps, codec *session.Codec) (*service.AuthService, error) {
	store, err := buildCredentialStore(deps)
	if err != nil {
		return nil, err
	}

	providers, err := buildOAuthProviders(ctx, deps.Config)
	if err != nil {
		return nil, err
	}
	if deps.Logger != nil {
		names := make([]string, 0, len(providers))
		for name := range providers {
			names = append(names, name)
		}
		deps.Logger.Info("auth configured",
			"mode", string(deps.Config.Auth.Mode),
			"oauth_providers", strings.Join(names, ","),
		)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Credentials: store,
		Codec:       codec,
		Providers:   providers,
		Auditor:     deps.Auditor,
	})
}

func buildCredentialStore(deps AuthDeps) (ports.CredentialStore, error) {
	switch deps.Config.Auth.Mode {
	case config.AuthModePostgres:
		if deps.DB == nil {
			return nil, fmt.Errorf("auth mode %q requires a database connection", deps.Config.Auth.Mode)
		}
		return &postgres.UserStore{DB: deps.DB}, nil
	case config.AuthModeDemo:
		return democreds.NewStore(democreds.DefaultAccounts())
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", deps.Config.Auth.Mode)
	}
}

func buildOAuthProviders(ctx context.Context, cfg *config.AppConfig) (map[string]ports.OAuthProvider, error) {
	providers := make(map[string]ports.OAuthProvider)
	baseURL := strings.TrimRight(cfg.HTTP.BaseURL, "/")

	if gc := cfg.Auth.Google; gc.Enabled() {
		p, err := oauth.NewOIDCProvider(ctx, oauth.OIDCConfig{
			ClientID:     gc.ClientID,
			ClientSecret: gc.ClientSecret,
			RedirectURL:  baseURL + "/auth/callback/google",
			Scope:        gc.Scope,
			IssuerURL:    discoveryOrDefault(gc.DiscoveryURL, "https://accounts.google.com"),
		})
		if err != nil {
			return nil, fmt.Errorf("configure google provider: %w", err)
		}
		providers["google"] = p
	}

	if gh := cfg.Auth.GitHub; gh.Enabled() {
		p, err := oauth.NewUserinfoProvider(oauth.UserinfoConfig{
			ClientID:     gh.ClientID,
			ClientSecret: gh.ClientSecret,
			RedirectURL:  baseURL + "/auth/callback/github",
			Scope:        scopeOrDefault(gh.Scope, "read:user user:email"),
			AuthURL:      urlOrDefault(gh.AuthURL, "https://github.com/login/oauth/authorize"),
			TokenURL:     urlOrDefault(gh.TokenURL, "https://github.com/login/oauth/access_token"),
			UserinfoURL:  urlOrDefault(gh.UserinfoURL, "https://api.github.com/user"),
			Attributes:   oauth.AttributeMap{ID: "id", Name: "name", Email: "email", Avatar: "avatar_url"},
		})
		if err != nil {
			return nil, fmt.Errorf("configure github provider: %w", err)
		}
		providers["github"] = p
	}

	return providers, nil
}

func discoveryOrDefault(url, fallback string) string {
	return urlOrDefault(url, fallback)
}

func scopeOrDefault(scope, fallback string) string {
	if scope != "" {
		return scope
	}
	return fallback
}

func urlOrDefault(url, fallback string) string {
	if url != "" {
		return url
	}
	return fallback
}

// BuildVerifier wires the verification flow. Local mode issues and checks
// codes against Redis and delivers them via the mail webhook; remote mode
// delegates both calls to the learning API.
func BuildVerifier(deps AuthDeps) (service.Verifier, error) {
	vcfg := deps.Config.Auth.Verification

	if vcfg.Mode == config.VerifyModeRemote {
		if deps.API == nil {
			return nil, fmt.Errorf("verify mode %q requires the learning API to be configured", vcfg.Mode)
		}
		return learnapi.RemoteVerifier{Client: deps.API}, nil
	}

	if deps.Redis == nil {
		return nil, fmt.Errorf("verify mode %q requires a redis connection", vcfg.Mode)
	}
	codeMailer, err := buildCodeMailer(deps)
	if err != nil {
		return nil, err
	}

	return service.NewVerificationService(service.VerificationServiceOptions{
		Store:   redisadapter.NewChallengeStore(deps.Redis),
		Mailer:  codeMailer,
		Auditor: deps.Auditor,
		Window:  vcfg.CodeTTL,
	})
}

func buildCodeMailer(deps AuthDeps) (ports.CodeMailer, error) {
	vcfg := deps.Config.Auth.Verification
	if vcfg.MailerURL == "" {
		if deps.Config.IsDev {
			return logMailer{logger: deps.Logger}, nil
		}
		return nil, fmt.Errorf("VERIFY_MAILER_URL is required for local verification")
	}
	return mailer.NewWebhook(mailer.Config{
		EndpointURL: vcfg.MailerURL,
		FromAddress: vcfg.MailerFrom,
	})
}

// logMailer writes codes to the log instead of sending email. Dev only.
type logMailer struct {
	logger *slog.Logger
}

func (m logMailer) SendCode(ctx context.Context, email, code string) error {
	logger := m.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "verification code issued", "email", email, "code", code)
	return nil
}
