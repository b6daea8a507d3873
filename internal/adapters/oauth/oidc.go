package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	"github.com/linguahub/lingua-ui/internal/ports"
)

// OIDCProvider implements ports.OAuthProvider against a discovery-capable
// OpenID Connect issuer (e.g. Google).
type OIDCProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
	attributes AttributeMap

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// OIDCConfig holds configuration for an OIDC provider.
type OIDCConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	IssuerURL    string
	// Attributes maps id_token/userinfo claims to identity fields. Zero value
	// falls back to the standard OIDC claim names.
	Attributes AttributeMap
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// defaultOIDCAttributes covers the standard OIDC claim names.
func defaultOIDCAttributes() AttributeMap {
	return AttributeMap{ID: "sub", Name: "name", Email: "email", Avatar: "picture"}
}

// NewOIDCProvider creates an OIDC provider, performing a single discovery fetch.
func NewOIDCProvider(ctx context.Context, cfg OIDCConfig) (*OIDCProvider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	attrs := cfg.Attributes
	if attrs == (AttributeMap{}) {
		attrs = defaultOIDCAttributes()
	}
	if err := attrs.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	scope := cfg.Scope
	if scope == "" {
		scope = "openid profile email"
	}

	return &OIDCProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(scope),
			Endpoint:     op.Endpoint(),
		},
		httpClient:   httpClient,
		attributes:   attrs,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// Begin starts the login flow with fresh state and nonce.
func (p *OIDCProvider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}

	state, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken(32)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	authURL := p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return authURL, state, nonce, nil
}

// Exchange completes the flow: code → token, verified id_token → claims →
// identity. The nonce must match the one issued by Begin.
func (p *OIDCProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	rawID, ok := token.Extra("id_token").(string)
	if !ok || rawID == "" {
		return domainauth.Identity{}, errors.New("token response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idToken.Nonce != in.Nonce {
		return domainauth.Identity{}, errors.New("invalid nonce")
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", err)
	}

	identity := p.attributes.Apply(claims)
	if identity.ID == "" {
		identity.ID = idToken.Subject
	}
	if identity.Email == "" {
		// Some issuers only expose email via the userinfo endpoint.
		ui, uiErr := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
		if uiErr != nil {
			return domainauth.Identity{}, fmt.Errorf("fetch userinfo: %w", uiErr)
		}
		var doc map[string]any
		if claimsErr := ui.Claims(&doc); claimsErr != nil {
			return domainauth.Identity{}, fmt.Errorf("decode userinfo: %w", claimsErr)
		}
		filled := p.attributes.Apply(doc)
		if identity.Email == "" {
			identity.Email = filled.Email
		}
		if identity.Name == "" {
			identity.Name = filled.Name
		}
		if identity.Image == "" {
			identity.Image = filled.Image
		}
	}

	return identity, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
