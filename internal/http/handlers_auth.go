package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	"github.com/linguahub/lingua-ui/internal/observability/audit"
	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/service"
	"github.com/linguahub/lingua-ui/internal/session"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (*service.SignInResult, error)
	BeginOAuth(ctx context.Context, provider, redirectURL string) (*service.BeginLoginResult, error)
	CompleteOAuth(ctx context.Context, input service.CompleteOAuthInput) (*service.SignInResult, error)
	Register(ctx context.Context, input service.RegisterInput) (domainauth.User, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Verification service.Verifier
	Codec        *session.Codec
	BaseURL      string
	CookieDomain string
	Auditor      ports.Auditor
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// signInRequest is the body of POST /api/auth/signin.
type signInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl,omitempty"`
}

// SignIn handles the credential sign-in endpoint.
// POST /api/auth/signin.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	setSessionCookie(w, r, sessionCookieParams{
		Domain: h.CookieDomain,
		Token:  result.Token,
		MaxAge: int(h.Codec.MaxAge().Seconds()),
	})

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":      result.Session.User,
		"expiresAt": result.Session.ExpiresAt,
		"url":       session.SafeCallbackURL(req.CallbackURL, h.BaseURL),
	})
}

// SignOut clears the session cookie.
// POST /api/auth/signout.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, r, SessionCookieName, h.CookieDomain)

	if h.Auditor != nil {
		h.Auditor.Event(r.Context(), audit.EventSignOut, nil)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"url": "/"})
}

// Session returns the current authentication status.
// GET /api/auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          sess.User,
		"provider":      sess.Provider,
		"expiresAt":     sess.ExpiresAt,
	})
}

// registerRequest is the body of POST /api/auth/register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a credential account and issues the first verification
// code. A failure to send the code does not undo the registration; the user
// can request another code from the verification page.
// POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if h.Verification != nil {
		if sendErr := h.Verification.Resend(r.Context(), user.ID, user.Email); sendErr != nil {
			h.logger().WarnContext(r.Context(), "initial verification code not sent",
				"user_id", user.ID, "error", sendErr)
		}
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": user.Identity})
}

// OAuthLogin starts an OAuth flow with the named provider.
// GET /auth/login/{provider}?callbackUrl=<optional_redirect>.
func (h *AuthHandlers) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	callbackURL := session.SafeCallbackURL(r.URL.Query().Get("callbackUrl"), h.BaseURL)

	redirectURL := strings.TrimRight(h.BaseURL, "/") + "/auth/callback/" + provider
	result, err := h.Svc.BeginOAuth(r.Context(), provider, redirectURL)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, CallbackURL: callbackURL})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// OAuthCallback completes an OAuth flow: the provider redirects here with a
// code and the state we issued at login.
// GET /auth/callback/{provider}?code=<code>&state=<state>.
func (h *AuthHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}
	if state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_state",
			Err:     errors.New("state parameter is required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonce := ""
	if nonceCookie, nonceErr := r.Cookie("oauth_nonce"); nonceErr == nil {
		nonce = nonceCookie.Value
	}

	result, err := h.Svc.CompleteOAuth(r.Context(), service.CompleteOAuthInput{
		Provider: provider,
		Code:     code,
		State:    state,
		Nonce:    nonce,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	setSessionCookie(w, r, sessionCookieParams{
		Domain: h.CookieDomain,
		Token:  result.Token,
		MaxAge: int(h.Codec.MaxAge().Seconds()),
	})
	clearCookie(w, r, "oauth_state", h.CookieDomain)
	clearCookie(w, r, "oauth_nonce", h.CookieDomain)

	http.Redirect(w, r, h.getPostLoginRedirect(w, r), http.StatusFound)
}

// oauthCookieParams groups values stashed in cookies for the OAuth round trip.
type oauthCookieParams struct {
	State       string
	Nonce       string
	CallbackURL string
}

// setOAuthCookies stores OAuth state, nonce, and the post-login destination
// in short-lived cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	secure := isSecureRequest(r)
	for name, value := range map[string]string{
		"oauth_state":         p.State,
		"oauth_nonce":         p.Nonce,
		"post_login_redirect": p.CallbackURL,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.CookieDomain,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600, // 10 minutes
		})
	}
}

// getPostLoginRedirect returns the post-login destination and clears the cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	destination := "/dashboard"
	if redirectCookie, err := r.Cookie("post_login_redirect"); err == nil {
		if candidate := session.SafeCallbackURL(redirectCookie.Value, h.BaseURL); candidate != h.BaseURL {
			destination = candidate
		}
		clearCookie(w, r, "post_login_redirect", h.CookieDomain)
	}
	return destination
}
