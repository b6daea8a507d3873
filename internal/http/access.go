package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	"github.com/linguahub/lingua-ui/internal/observability/audit"
	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/session"
)

// Route tiers. A path belongs to a tier when it equals a prefix or sits
// beneath it as a subpath; "/teachers" does not match the "/teacher" tier.
var (
	protectedPrefixes = []string{
		"/dashboard",
		"/profile",
		"/courses/enrolled",
		"/practice/my-tests",
		"/vocabulary/my-sets",
		"/grammar/my-progress",
	}
	adminPrefixes   = []string{"/admin"}
	teacherPrefixes = []string{"/teacher"}
)

// LoginPath is the sign-in page unauthenticated visitors are sent to.
const LoginPath = "/auth"

// Decision is the outcome of classifying one request path. An empty Redirect
// means the request may proceed.
type Decision struct {
	Redirect string
}

// Allowed reports whether the request may proceed to its handler.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Classify evaluates a request path against the access tiers for the given
// session (nil for unauthenticated requests). Tiers are checked in a fixed
// order: protected routes first, then admin, then teacher, then the sign-in
// page itself. The first matching rule wins.
//
// A signed-in non-admin on an admin route is redirected home, not to the
// sign-in page: logging in again would not change the outcome.
func Classify(path string, sess *domainauth.Session) Decision {
	switch {
	case matchesTier(path, protectedPrefixes) && !sess.IsAuthenticated():
		return Decision{Redirect: LoginPath + "?callbackUrl=" + url.QueryEscape(path)}
	case matchesTier(path, adminPrefixes) && !sess.IsAdmin():
		return Decision{Redirect: "/"}
	case matchesTier(path, teacherPrefixes) && !sess.IsTeacher():
		return Decision{Redirect: "/"}
	case path == LoginPath && sess.IsAuthenticated():
		// Exact match only: /auth/login/{provider} and /auth/callback/{provider}
		// must stay reachable with a live session (account switching).
		return Decision{Redirect: "/dashboard"}
	}
	return Decision{}
}

func matchesTier(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// imageExtensions lists asset suffixes the gate never evaluates.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico"}

// SkipsGate reports whether a path is excluded from access evaluation
// entirely: API endpoints (which enforce auth per-handler), static assets,
// and the health check. Excluded paths are skipped, not allowed; no
// classification runs for them at all.
func SkipsGate(path string) bool {
	if strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/_next/static/") ||
		strings.HasPrefix(path, "/_next/image/") {
		return true
	}
	if path == "/favicon.ico" || path == "/healthz" {
		return true
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// AccessGateConfig holds the collaborators for the AccessGate middleware.
type AccessGateConfig struct {
	Codec        *session.Codec
	CookieDomain string
	Auditor      ports.Auditor
	Logger       *slog.Logger
}

// AccessGate returns a middleware that decodes the session cookie, attaches
// the resulting session to the request context, and enforces the route tiers
// via Classify. A missing, expired, or tampered cookie is treated the same as
// no session at all. Sessions past the midpoint of their lifetime are
// re-minted and the cookie refreshed in the response.
func AccessGate(cfg AccessGateConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := decodeSessionCookie(r, cfg.Codec)

			if sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess.session))
				if sess.refresh {
					refreshSessionCookie(w, r, cfg, sess.session)
				}
			}

			if SkipsGate(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var current *domainauth.Session
			if sess != nil {
				current = sess.session
			}
			decision := Classify(r.URL.Path, current)
			if decision.Allowed() {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.Auditor != nil {
				cfg.Auditor.Event(r.Context(), audit.EventGateRedirect, map[string]string{
					"path": r.URL.Path,
					"to":   decision.Redirect,
				})
			}
			http.Redirect(w, r, decision.Redirect, http.StatusFound)
		})
	}
}

type decodedSession struct {
	session *domainauth.Session
	refresh bool
}

// decodeSessionCookie reads and validates the session cookie. Any decode
// failure yields nil; the gate must never fail closed on a bad cookie.
func decodeSessionCookie(r *http.Request, codec *session.Codec) *decodedSession {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, refresh, err := codec.Decode(cookie.Value)
	if err != nil {
		return nil
	}
	return &decodedSession{session: sess, refresh: refresh}
}

// refreshSessionCookie re-mints the token with a fresh expiry and replaces
// the cookie on the response.
func refreshSessionCookie(w http.ResponseWriter, r *http.Request, cfg AccessGateConfig, sess *domainauth.Session) {
	token, err := cfg.Codec.Encode(sess.User, sess.Provider)
	if err != nil {
		return
	}
	setSessionCookie(w, r, sessionCookieParams{
		Domain: cfg.CookieDomain,
		Token:  token,
		MaxAge: int(cfg.Codec.MaxAge().Seconds()),
	})
}
