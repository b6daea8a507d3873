package learnapi

import (
	"context"

	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

// RemoteVerifier adapts the client to the verification flow contract used by
// the HTTP handlers, for deployments where the learning API owns challenge
// issuance and checking instead of the local redis-backed flow.
type RemoteVerifier struct {
	Client *Client
}

// Verify submits the code to the remote check endpoint. Envelope failures
// collapse into the generic verification error so the caller surface stays
// identical across local and remote modes; transport failures stay transient.
func (v RemoteVerifier) Verify(ctx context.Context, userID, code string) error {
	err := v.Client.CheckCode(ctx, code, userID)
	if err == nil {
		return nil
	}
	if apperrors.IsTransient(err) {
		return err
	}
	return apperrors.VerificationFailed()
}

// Resend asks the remote API to issue and deliver a fresh code.
func (v RemoteVerifier) Resend(ctx context.Context, userID, email string) error {
	err := v.Client.ResendCode(ctx, userID, email)
	if err == nil {
		return nil
	}
	if apperrors.IsTransient(err) {
		return err
	}
	return apperrors.VerificationFailed()
}
