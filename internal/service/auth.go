package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
	"github.com/linguahub/lingua-ui/internal/observability/audit"
	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/session"
)

// ProviderCredentials names the password sign-in provider in session claims.
const ProviderCredentials = "credentials"

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Credentials ports.CredentialStore
	Codec       *session.Codec
	// Providers maps provider slug (e.g. "google", "github") to its adapter.
	Providers map[string]ports.OAuthProvider
	Auditor   ports.Auditor
}

// AuthService orchestrates sign-in flows: credential checks against the
// store, OAuth flows against external providers, and session token minting.
type AuthService struct {
	credentials ports.CredentialStore
	codec       *session.Codec
	providers   map[string]ports.OAuthProvider
	auditor     ports.Auditor

	// dummyHash keeps bcrypt work uniform when the email is unknown, so
	// response timing does not reveal which check failed.
	dummyHash []byte
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("session codec is required")
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("lingua-ui-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &AuthService{
		credentials: opts.Credentials,
		codec:       opts.Codec,
		providers:   opts.Providers,
		auditor:     opts.Auditor,
		dummyHash:   dummy,
	}, nil
}

// SignInResult carries the minted token and its decoded session.
type SignInResult struct {
	Token   string
	Session domainauth.Session
}

// SignIn validates an email/password pair and mints a session token. Every
// credential problem (missing field, unknown email, wrong password) collapses
// into the same generic authentication failure; store outages surface as a
// distinct retryable error.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.audit(ctx, audit.EventSignInFailure, map[string]string{"reason": "missing_fields"})
		return nil, apperrors.AuthenticationFailed()
	}

	user, err := s.credentials.Lookup(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// Burn the same bcrypt cost as a real comparison.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.audit(ctx, audit.EventSignInFailure, map[string]string{"provider": ProviderCredentials})
			return nil, apperrors.AuthenticationFailed()
		}
		if apperrors.IsTransient(err) {
			return nil, err
		}
		return nil, apperrors.Transient(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.audit(ctx, audit.EventSignInFailure, map[string]string{"provider": ProviderCredentials})
		return nil, apperrors.AuthenticationFailed()
	}

	result, err := s.establishSession(user.Identity, ProviderCredentials)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, audit.EventSignInSuccess, map[string]string{"provider": ProviderCredentials})
	return result, nil
}

// BeginLoginResult contains the result of beginning an OAuth login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginOAuth initiates an OAuth flow with the named provider.
func (s *AuthService) BeginOAuth(ctx context.Context, provider, redirectURL string) (*BeginLoginResult, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}
	if redirectURL == "" {
		return nil, apperrors.Validation("redirect URL is required")
	}

	authURL, state, nonce, err := p.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("begin oauth flow: %w", err))
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteOAuthInput groups parameters for completing an OAuth flow.
type CompleteOAuthInput struct {
	Provider string
	Code     string
	State    string
	Nonce    string
}

// CompleteOAuth exchanges the authorization code for an identity and mints a
// session token for it.
func (s *AuthService) CompleteOAuth(ctx context.Context, input CompleteOAuthInput) (*SignInResult, error) {
	p, err := s.provider(input.Provider)
	if err != nil {
		return nil, err
	}
	if input.Code == "" {
		return nil, apperrors.Validation("authorization code is required")
	}
	if input.State == "" {
		return nil, apperrors.Validation("state parameter is required")
	}

	identity, err := p.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		s.audit(ctx, audit.EventSignInFailure, map[string]string{"provider": input.Provider})
		return nil, apperrors.Transient(fmt.Errorf("exchange authorization code: %w", err))
	}

	result, err := s.establishSession(identity, input.Provider)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, audit.EventSignInSuccess, map[string]string{"provider": input.Provider})
	return result, nil
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a credential-backed account with the default student role.
// The account starts unverified; the caller follows up with the verification
// flow.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domainauth.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return domainauth.User{}, apperrors.ValidationField("email", "email is required")
	}
	if len(input.Password) < 8 {
		return domainauth.User{}, apperrors.ValidationField("password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainauth.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	user, err := s.credentials.Create(ctx, domainauth.User{
		Identity: domainauth.Identity{
			Name:  input.Name,
			Email: input.Email,
			Role:  domainauth.PlainRole(domainauth.RoleStudent),
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return domainauth.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// establishSession mints a token and materializes its session view.
func (s *AuthService) establishSession(identity domainauth.Identity, provider string) (*SignInResult, error) {
	token, err := s.codec.Encode(identity, provider)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "mint session token")
	}
	return &SignInResult{
		Token: token,
		Session: domainauth.Session{
			User:      identity,
			Provider:  provider,
			ExpiresAt: time.Now().Add(s.codec.MaxAge()),
		},
	}, nil
}

func (s *AuthService) provider(name string) (ports.OAuthProvider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("unknown auth provider %q", name))
	}
	return p, nil
}

func (s *AuthService) audit(ctx context.Context, name string, tags map[string]string) {
	if s.auditor != nil {
		s.auditor.Event(ctx, name, tags)
	}
}
