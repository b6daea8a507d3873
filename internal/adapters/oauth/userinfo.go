package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	"github.com/linguahub/lingua-ui/internal/ports"
)

// UserinfoProvider implements ports.OAuthProvider for providers without OIDC
// discovery (e.g. GitHub): plain OAuth2 code exchange followed by a userinfo
// fetch, with identity fields pulled out via the attribute map.
type UserinfoProvider struct {
	config      *oauth2.Config
	userinfoURL string
	attributes  AttributeMap
	httpClient  *http.Client
}

// UserinfoConfig holds configuration for a userinfo-style provider.
type UserinfoConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	AuthURL      string
	TokenURL     string
	UserinfoURL  string
	Attributes   AttributeMap
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// NewUserinfoProvider creates a userinfo-style OAuth provider.
func NewUserinfoProvider(cfg UserinfoConfig) (*UserinfoProvider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.UserinfoURL == "" {
		return nil, errors.New("auth, token, and userinfo URLs are required")
	}
	if err := cfg.Attributes.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &UserinfoProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userinfoURL: cfg.UserinfoURL,
		attributes:  cfg.Attributes,
		httpClient:  httpClient,
	}, nil
}

// Begin starts the login flow. The nonce is generated for parity with the
// OIDC provider but is not verifiable without an id_token; state carries the
// CSRF protection here.
func (p *UserinfoProvider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
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

	return p.config.AuthCodeURL(state), state, nonce, nil
}

// Exchange trades the code for a token and maps the userinfo document into an
// Identity.
func (p *UserinfoProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	doc, err := p.fetchUserinfo(ctx, token)
	if err != nil {
		return domainauth.Identity{}, err
	}

	identity := p.attributes.Apply(doc)
	if identity.ID == "" {
		return domainauth.Identity{}, errors.New("userinfo document missing user id")
	}
	return identity, nil
}

func (p *UserinfoProvider) fetchUserinfo(ctx context.Context, token *oauth2.Token) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var doc any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return doc, nil
}
