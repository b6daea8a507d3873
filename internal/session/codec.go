package session

// Package session implements the signed session token: encoding an
// authenticated identity into a JWT at sign-in and decoding it back on each
// request. The token is the single source of truth consulted by the access
// gate; nothing else mutates it.

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

// DefaultMaxAge is the session validity window.
const DefaultMaxAge = 30 * 24 * time.Hour

// DefaultIssuer is stamped into tokens when no issuer is configured.
const DefaultIssuer = "lingua-ui"

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Name     string          `json:"name,omitempty"`
	Email    string          `json:"email,omitempty"`
	Image    string          `json:"image,omitempty"`
	Role     domainauth.Role `json:"role"`
	Provider string          `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// Config configures a Codec.
type Config struct {
	// Secret signs and verifies tokens (HS256). Required.
	Secret string
	// Issuer is the iss claim. Defaults to DefaultIssuer.
	Issuer string
	// MaxAge is the validity window. Defaults to DefaultMaxAge (30 days).
	MaxAge time.Duration
}

// Codec encodes identities into signed session tokens and decodes them back.
// Decoding also reports when a token is past its refresh threshold so the
// middleware can transparently re-issue it (sliding session).
type Codec struct {
	secret []byte
	issuer string
	maxAge time.Duration
	now    func() time.Time
}

// NewCodec constructs a Codec from Config.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// MaxAge returns the configured validity window.
func (c *Codec) MaxAge() time.Duration { return c.maxAge }

// Encode mints a signed token for the identity. Expiry is issuance time plus
// the configured max age.
func (c *Codec) Encode(identity domainauth.Identity, provider string) (string, error) {
	now := c.now().UTC()
	claims := Claims{
		Name:     identity.Name,
		Email:    identity.Email,
		Image:    identity.Image,
		Role:     identity.Role,
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and rebuilds the session. Every failure
// mode (expired, tampered, wrong algorithm, malformed) surfaces as the same
// invalid-session error; callers treat it identically to "no session".
//
// The returned refresh flag is true once the token has consumed more than half
// of its validity window, signalling the caller to re-issue it.
func (c *Codec) Decode(tokenString string) (*domainauth.Session, bool, error) {
	if tokenString == "" {
		return nil, false, apperrors.InvalidSession(errors.New("empty token"))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, false, apperrors.InvalidSession(err)
	}
	if !token.Valid {
		return nil, false, apperrors.InvalidSession(jwt.ErrTokenInvalidClaims)
	}

	sess := &domainauth.Session{
		User: domainauth.Identity{
			ID:    claims.Subject,
			Name:  claims.Name,
			Email: claims.Email,
			Image: claims.Image,
			Role:  claims.Role,
		},
		Provider:  claims.Provider,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	refresh := c.now().After(claims.ExpiresAt.Add(-c.maxAge / 2))
	return sess, refresh, nil
}

// SafeCallbackURL sanitizes a post-auth redirect target. Only two destinations
// are trusted: a relative path rooted at "/" (but not a protocol-relative
// "//host" URL) or an absolute URL whose origin exactly matches base. Anything
// else collapses to base, closing the open-redirect hole.
func SafeCallbackURL(raw, base string) string {
	if raw == "" {
		return base
	}

	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") && !strings.HasPrefix(raw, "/\\") {
		return raw
	}

	target, err := url.Parse(raw)
	if err != nil {
		return base
	}
	origin, err := url.Parse(base)
	if err != nil {
		return base
	}
	if target.Scheme == origin.Scheme && target.Host == origin.Host && target.Host != "" {
		return raw
	}
	return base
}
