package httpx

import (
	"log/slog"
	"net/http"

	apperrors "github.com/linguahub/lingua-ui/internal/errors"
	"github.com/linguahub/lingua-ui/internal/service"
)

// VerifyHandlers provides HTTP handlers for the email verification flow.
type VerifyHandlers struct {
	Verifier service.Verifier
	Logger   *slog.Logger
}

// statusResponse mirrors the envelope the front end expects from code
// endpoints: an HTTP-like status plus a display message.
type statusResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// checkCodeRequest is the body of POST /api/auth/check-code.
type checkCodeRequest struct {
	CodeID string `json:"codeId"`
	ID     string `json:"id"`
}

// CheckCode validates a submitted verification code for a user. Wrong,
// expired, and missing codes all produce the same rejection.
// POST /api/auth/check-code.
func (h *VerifyHandlers) CheckCode(w http.ResponseWriter, r *http.Request) {
	var req checkCodeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" || req.CodeID == "" {
		WriteJSON(w, http.StatusBadRequest, statusResponse{
			StatusCode: http.StatusBadRequest,
			Message:    apperrors.MsgVerificationFailed,
		})
		return
	}

	if err := h.Verifier.Verify(r.Context(), req.ID, req.CodeID); err != nil {
		h.writeVerifyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{StatusCode: http.StatusOK, Message: "Verified"})
}

// resendCodeRequest is the body of POST /api/auth/resend-code.
type resendCodeRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ResendCode issues a fresh verification code, invalidating any prior one.
// POST /api/auth/resend-code.
func (h *VerifyHandlers) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ID == "" || req.Email == "" {
		WriteJSON(w, http.StatusBadRequest, statusResponse{
			StatusCode: http.StatusBadRequest,
			Message:    apperrors.MsgVerificationFailed,
		})
		return
	}

	if err := h.Verifier.Resend(r.Context(), req.ID, req.Email); err != nil {
		h.writeVerifyError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, statusResponse{StatusCode: http.StatusOK, Message: "Code sent"})
}

// writeVerifyError writes the envelope form of a verification failure.
// Transient backend trouble keeps its retryable status so the front end can
// distinguish "try the code again" from "try again later".
func (h *VerifyHandlers) writeVerifyError(w http.ResponseWriter, err error) {
	status := statusForCode(apperrors.GetCode(err))
	WriteJSON(w, status, statusResponse{StatusCode: status, Message: clientMessage(err)})
}
