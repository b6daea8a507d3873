package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	redisadapter "github.com/linguahub/lingua-ui/internal/adapters/redis"
	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
	"github.com/linguahub/lingua-ui/internal/observability/audit"
	"github.com/linguahub/lingua-ui/internal/ports"
)

// DefaultCodeWindow is the verification code validity window. The UI counts
// this down, so it is short on purpose; override via configuration.
const DefaultCodeWindow = 60 * time.Second

// Verifier is the narrow contract the verification endpoints depend on. It is
// implemented locally by VerificationService and remotely by the learning API
// adapter, selected at wiring time.
type Verifier interface {
	Verify(ctx context.Context, userID, code string) error
	Resend(ctx context.Context, userID, email string) error
}

// VerificationServiceOptions groups dependencies for VerificationService.
type VerificationServiceOptions struct {
	Store   ports.ChallengeStore
	Mailer  ports.CodeMailer
	Auditor ports.Auditor
	// Window overrides DefaultCodeWindow when positive.
	Window time.Duration
}

// VerificationService issues, resends, and checks email verification codes.
// The challenge store's keyed upsert guarantees at most one live challenge
// per user; this service adds the code generation, expiry, and consume-once
// semantics on top.
type VerificationService struct {
	store   ports.ChallengeStore
	mailer  ports.CodeMailer
	auditor ports.Auditor
	window  time.Duration
	now     func() time.Time
}

var _ Verifier = (*VerificationService)(nil)

// NewVerificationService constructs a VerificationService.
func NewVerificationService(opts VerificationServiceOptions) (*VerificationService, error) {
	if opts.Store == nil {
		return nil, errors.New("challenge store is required")
	}
	if opts.Mailer == nil {
		return nil, errors.New("code mailer is required")
	}
	window := opts.Window
	if window <= 0 {
		window = DefaultCodeWindow
	}
	return &VerificationService{
		store:   opts.Store,
		mailer:  opts.Mailer,
		auditor: opts.Auditor,
		window:  window,
		now:     time.Now,
	}, nil
}

// Issue creates a fresh challenge for the user, replacing any outstanding
// one, and dispatches the code by email.
func (s *VerificationService) Issue(ctx context.Context, userID, email string) (domainauth.Challenge, error) {
	if userID == "" {
		return domainauth.Challenge{}, apperrors.ValidationField("id", "user id is required")
	}
	if email == "" {
		return domainauth.Challenge{}, apperrors.ValidationField("email", "email is required")
	}

	code, err := generateCode()
	if err != nil {
		return domainauth.Challenge{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate code")
	}

	now := s.now()
	ch := domainauth.Challenge{
		UserID:    userID,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.window),
	}

	if err := s.store.Put(ctx, ch); err != nil {
		return domainauth.Challenge{}, apperrors.Transient(fmt.Errorf("store challenge: %w", err))
	}

	if err := s.mailer.SendCode(ctx, email, code); err != nil {
		return domainauth.Challenge{}, apperrors.Transient(fmt.Errorf("dispatch code: %w", err))
	}

	s.audit(ctx, audit.EventCodeIssued, nil)
	return ch, nil
}

// Resend is Issue under its external name: it invalidates the prior code by
// construction, since the store write replaces the user's challenge.
func (s *VerificationService) Resend(ctx context.Context, userID, email string) error {
	_, err := s.Issue(ctx, userID, email)
	return err
}

// Verify checks a submitted code. Wrong code and expired code produce the
// same generic failure; a match consumes the challenge so it cannot be
// replayed.
func (s *VerificationService) Verify(ctx context.Context, userID, submitted string) error {
	if userID == "" || submitted == "" {
		return apperrors.VerificationFailed()
	}

	ch, err := s.store.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, redisadapter.ErrNotFound) {
			s.audit(ctx, audit.EventCodeRejected, map[string]string{"reason": "missing"})
			return apperrors.VerificationFailed()
		}
		return apperrors.Transient(fmt.Errorf("load challenge: %w", err))
	}

	if ch.Expired(s.now()) || subtle.ConstantTimeCompare([]byte(ch.Code), []byte(submitted)) != 1 {
		s.audit(ctx, audit.EventCodeRejected, nil)
		return apperrors.VerificationFailed()
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return apperrors.Transient(fmt.Errorf("consume challenge: %w", err))
	}

	s.audit(ctx, audit.EventCodeVerified, nil)
	return nil
}

func (s *VerificationService) audit(ctx context.Context, name string, tags map[string]string) {
	if s.auditor != nil {
		s.auditor.Event(ctx, name, tags)
	}
}

// generateCode returns a uniformly random six-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
