package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
)

// CredentialStore looks up and creates credential-backed users. The sign-in
// contract is narrow on purpose: given an email, return the stored user with
// its bcrypt hash, or a NotFound error. The service layer collapses NotFound
// and hash mismatch into one generic authentication failure.
type CredentialStore interface {
	Lookup(ctx context.Context, email string) (domainauth.User, error)
	Create(ctx context.Context, user domainauth.User) (domainauth.User, error)
}

// ChallengeStore persists verification challenges keyed by user id. Put must
// behave as an atomic keyed upsert: writing a challenge replaces any prior one
// for the same user, so at most one challenge is ever live per user.
type ChallengeStore interface {
	Put(ctx context.Context, ch domainauth.Challenge) error
	Get(ctx context.Context, userID string) (domainauth.Challenge, error)
	Delete(ctx context.Context, userID string) error
}

// CodeMailer delivers a verification code to an address. Delivery is an
// external collaborator; the core only produces the code and tracks validity.
type CodeMailer interface {
	SendCode(ctx context.Context, email, code string) error
}

// BeginInput carries inputs for initiating an OAuth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// OAuthProvider initiates and completes an authentication flow against an
// external identity provider.
type OAuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// Auditor records security-relevant events (sign-in attempts, verification
// outcomes) with an external observability collaborator.
type Auditor interface {
	Event(ctx context.Context, name string, tags map[string]string)
}
