package httpx

import (
	"log/slog"
	"net/http"

	"github.com/linguahub/lingua-ui/internal/ports"
	"github.com/linguahub/lingua-ui/internal/service"
	"github.com/linguahub/lingua-ui/internal/session"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface
	Verification service.Verifier
	Content      ContentAPI
	Codec        *session.Codec
	Auditor      ports.Auditor
	BaseURL      string
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router with the full middleware
// chain: panic recovery outermost, then request logging, CSRF protection,
// and the access gate.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Verification: services.Verification,
		Codec:        services.Codec,
		BaseURL:      services.BaseURL,
		CookieDomain: services.CookieDomain,
		Auditor:      services.Auditor,
		Logger:       services.Logger,
	}
	verifyHandlers := &VerifyHandlers{Verifier: services.Verification, Logger: services.Logger}

	registerAuthRoutes(mux, authHandlers)
	registerVerifyRoutes(mux, verifyHandlers)
	if services.Content != nil {
		registerContentRoutes(mux, &ContentHandlers{API: services.Content})
	}
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gate := AccessGate(AccessGateConfig{
		Codec:        services.Codec,
		CookieDomain: services.CookieDomain,
		Auditor:      services.Auditor,
		Logger:       logger,
	})
	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})

	var handler http.Handler = mux
	handler = gate(handler)
	handler = csrf(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /api/auth/signin", h.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.SignOut)
	mux.HandleFunc("GET /api/auth/session", h.Session)
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("GET /auth/login/{provider}", h.OAuthLogin)
	mux.HandleFunc("GET /auth/callback/{provider}", h.OAuthCallback)
}

func registerVerifyRoutes(mux *http.ServeMux, h *VerifyHandlers) {
	mux.HandleFunc("POST /api/auth/check-code", h.CheckCode)
	mux.HandleFunc("POST /api/auth/resend-code", h.ResendCode)
}

func registerContentRoutes(mux *http.ServeMux, h *ContentHandlers) {
	mux.HandleFunc("GET /api/exams/{id}", h.GetExam)
	mux.HandleFunc("GET /api/vocabulary/{id}", h.GetVocabularyTopic)
	mux.HandleFunc("GET /api/grammar/{id}", h.GetGrammarLesson)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
