package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
	"github.com/linguahub/lingua-ui/internal/service"
)

type fakeAuthService struct {
	signInResult  *service.SignInResult
	signInErr     error
	beginResult   *service.BeginLoginResult
	beginErr      error
	completeInput service.CompleteOAuthInput
	completeErr   error
	registered    *service.RegisterInput
	registerErr   error
}

func (f *fakeAuthService) SignIn(_ context.Context, _, _ string) (*service.SignInResult, error) {
	return f.signInResult, f.signInErr
}

func (f *fakeAuthService) BeginOAuth(_ context.Context, _, _ string) (*service.BeginLoginResult, error) {
	return f.beginResult, f.beginErr
}

func (f *fakeAuthService) CompleteOAuth(_ context.Context, input service.CompleteOAuthInput) (*service.SignInResult, error) {
	f.completeInput = input
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.signInResult, nil
}

func (f *fakeAuthService) Register(_ context.Context, input service.RegisterInput) (domainauth.User, error) {
	f.registered = &input
	if f.registerErr != nil {
		return domainauth.User{}, f.registerErr
	}
	return domainauth.User{Identity: domainauth.Identity{
		ID:    "new-user",
		Name:  input.Name,
		Email: input.Email,
		Role:  domainauth.PlainRole(domainauth.RoleStudent),
	}}, nil
}

type fakeVerifier struct {
	verifyErr  error
	resendErr  error
	verified   []string
	resent     []string
	lastUserID string
}

func (f *fakeVerifier) Verify(_ context.Context, userID, code string) error {
	f.lastUserID = userID
	f.verified = append(f.verified, code)
	return f.verifyErr
}

func (f *fakeVerifier) Resend(_ context.Context, userID, email string) error {
	f.lastUserID = userID
	f.resent = append(f.resent, email)
	return f.resendErr
}

func signInResult(t *testing.T) *service.SignInResult {
	t.Helper()
	return &service.SignInResult{
		Token: "signed-token",
		Session: domainauth.Session{
			User: domainauth.Identity{
				ID:    "u1",
				Email: "demo@example.com",
				Role:  domainauth.PlainRole(domainauth.RoleStudent),
			},
			Provider:  service.ProviderCredentials,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func newAuthHandlers(svc AuthServiceInterface, verifier service.Verifier, t *testing.T) *AuthHandlers {
	t.Helper()
	return &AuthHandlers{
		Svc:          svc,
		Verification: verifier,
		Codec:        newTestCodec(t),
		BaseURL:      "https://lingua.example.com",
	}
}

func TestSignInSetsCookieAndSafeRedirect(t *testing.T) {
	svc := &fakeAuthService{signInResult: signInResult(t)}
	h := newAuthHandlers(svc, nil, t)

	body := `{"email":"demo@example.com","password":"demo123","callbackUrl":"/dashboard"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/dashboard", resp["url"])
}

func TestSignInRejectsForeignCallback(t *testing.T) {
	svc := &fakeAuthService{signInResult: signInResult(t)}
	h := newAuthHandlers(svc, nil, t)

	body := `{"email":"demo@example.com","password":"demo123","callbackUrl":"https://evil.example.net/"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://lingua.example.com", resp["url"])
}

func TestSignInFailureIsGenericAndUnauthorized(t *testing.T) {
	svc := &fakeAuthService{signInErr: apperrors.AuthenticationFailed()}
	h := newAuthHandlers(svc, nil, t)

	body := `{"email":"demo@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.MsgAuthenticationFailed, resp["message"])
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignInTransientIsBadGateway(t *testing.T) {
	svc := &fakeAuthService{signInErr: apperrors.Transient(nil)}
	h := newAuthHandlers(svc, nil, t)

	body := `{"email":"demo@example.com","password":"demo123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SignIn(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSignOutClearsCookie(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{}, nil, t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	rec := httptest.NewRecorder()
	h.SignOut(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionEndpoint(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{}, nil, t)

	// Anonymous.
	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	var anon map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anon))
	assert.Equal(t, false, anon["authenticated"])

	// Authenticated.
	sess := &domainauth.Session{
		User:      domainauth.Identity{ID: "u1", Email: "demo@example.com", Role: domainauth.PlainRole(domainauth.RoleStudent)},
		Provider:  service.ProviderCredentials,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), sess))
	rec = httptest.NewRecorder()
	h.Session(rec, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["authenticated"])
	user, ok := resp["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, domainauth.RoleStudent, user["role"])
}

func TestRegisterIssuesVerificationCode(t *testing.T) {
	svc := &fakeAuthService{}
	verifier := &fakeVerifier{}
	h := newAuthHandlers(svc, verifier, t)

	body := `{"name":"New User","email":"new@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.registered)
	assert.Equal(t, "new@example.com", svc.registered.Email)
	require.Len(t, verifier.resent, 1)
	assert.Equal(t, "new@example.com", verifier.resent[0])
	assert.Equal(t, "new-user", verifier.lastUserID)
}

func TestRegisterConflict(t *testing.T) {
	svc := &fakeAuthService{registerErr: apperrors.Conflict("account already exists")}
	h := newAuthHandlers(svc, &fakeVerifier{}, t)

	body := `{"name":"New User","email":"dup@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOAuthLoginRedirectsToProvider(t *testing.T) {
	svc := &fakeAuthService{beginResult: &service.BeginLoginResult{
		AuthURL: "https://accounts.example.com/authorize?state=abc",
		State:   "abc",
		Nonce:   "n1",
	}}
	h := newAuthHandlers(svc, nil, t)

	req := httptest.NewRequest(http.MethodGet, "/auth/login/google?callbackUrl=/dashboard", nil)
	req.SetPathValue("provider", "google")
	rec := httptest.NewRecorder()
	h.OAuthLogin(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://accounts.example.com/authorize?state=abc", rec.Header().Get("Location"))

	names := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "abc", names["oauth_state"])
	assert.Equal(t, "n1", names["oauth_nonce"])
	assert.Equal(t, "/dashboard", names["post_login_redirect"])
}

func TestOAuthLoginUnknownProvider(t *testing.T) {
	svc := &fakeAuthService{beginErr: apperrors.NotFound("unknown provider")}
	h := newAuthHandlers(svc, nil, t)

	req := httptest.NewRequest(http.MethodGet, "/auth/login/nope", nil)
	req.SetPathValue("provider", "nope")
	rec := httptest.NewRecorder()
	h.OAuthLogin(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOAuthCallbackHappyPath(t *testing.T) {
	svc := &fakeAuthService{signInResult: signInResult(t)}
	h := newAuthHandlers(svc, nil, t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?code=c1&state=abc", nil)
	req.SetPathValue("provider", "google")
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "abc"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "n1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/courses/enrolled"})
	rec := httptest.NewRecorder()
	h.OAuthCallback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/courses/enrolled", rec.Header().Get("Location"))
	assert.Equal(t, service.CompleteOAuthInput{Provider: "google", Code: "c1", State: "abc", Nonce: "n1"}, svc.completeInput)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.Value != "" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "signed-token", cookie.Value)
}

func TestOAuthCallbackStateMismatch(t *testing.T) {
	svc := &fakeAuthService{signInResult: signInResult(t)}
	h := newAuthHandlers(svc, nil, t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?code=c1&state=abc", nil)
	req.SetPathValue("provider", "google")
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "different"})
	rec := httptest.NewRecorder()
	h.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.completeInput.Code)
}

func TestOAuthCallbackMissingParams(t *testing.T) {
	h := newAuthHandlers(&fakeAuthService{}, nil, t)

	req := httptest.NewRequest(http.MethodGet, "/auth/callback/google?state=abc", nil)
	req.SetPathValue("provider", "google")
	rec := httptest.NewRecorder()
	h.OAuthCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
