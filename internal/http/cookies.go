package httpx

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session_token"

// sessionCookieParams groups the attributes needed to set the session cookie.
type sessionCookieParams struct {
	Domain string
	Token  string
	MaxAge int
}

// setSessionCookie writes the session cookie. HttpOnly always; Secure when
// the request arrived over TLS, directly or via a forwarding proxy.
func setSessionCookie(w http.ResponseWriter, r *http.Request, p sessionCookieParams) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    p.Token,
		Path:     "/",
		Domain:   p.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   p.MaxAge,
	})
}

// clearCookie expires a cookie immediately, mirroring the attributes used
// when setting it so deletion works across browsers.
func clearCookie(w http.ResponseWriter, r *http.Request, name, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// isSecureRequest checks whether the request used HTTPS, accounting for
// comma-separated X-Forwarded-Proto values set by proxies.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
