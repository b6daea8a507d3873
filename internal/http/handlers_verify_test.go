package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

func postCheckCode(t *testing.T, h *VerifyHandlers, body string) (*httptest.ResponseRecorder, statusResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/check-code", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.CheckCode(rec, req)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestCheckCodeSuccess(t *testing.T) {
	verifier := &fakeVerifier{}
	h := &VerifyHandlers{Verifier: verifier}

	rec, resp := postCheckCode(t, h, `{"codeId":"482931","id":"u1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"482931"}, verifier.verified)
	assert.Equal(t, "u1", verifier.lastUserID)
}

func TestCheckCodeRejection(t *testing.T) {
	verifier := &fakeVerifier{verifyErr: apperrors.VerificationFailed()}
	h := &VerifyHandlers{Verifier: verifier}

	rec, resp := postCheckCode(t, h, `{"codeId":"000000","id":"u1"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperrors.MsgVerificationFailed, resp.Message)
}

func TestCheckCodeTransientBackend(t *testing.T) {
	verifier := &fakeVerifier{verifyErr: apperrors.Transient(nil)}
	h := &VerifyHandlers{Verifier: verifier}

	rec, resp := postCheckCode(t, h, `{"codeId":"482931","id":"u1"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, apperrors.MsgTransientFailure, resp.Message)
}

func TestCheckCodeMissingFields(t *testing.T) {
	verifier := &fakeVerifier{}
	h := &VerifyHandlers{Verifier: verifier}

	rec, _ := postCheckCode(t, h, `{"codeId":"482931"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, verifier.verified)
}

func TestResendCodeSuccess(t *testing.T) {
	verifier := &fakeVerifier{}
	h := &VerifyHandlers{Verifier: verifier}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/resend-code",
		strings.NewReader(`{"id":"u1","email":"demo@example.com"}`))
	rec := httptest.NewRecorder()
	h.ResendCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"demo@example.com"}, verifier.resent)
}

func TestResendCodeMissingEmail(t *testing.T) {
	verifier := &fakeVerifier{}
	h := &VerifyHandlers{Verifier: verifier}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/resend-code",
		strings.NewReader(`{"id":"u1"}`))
	rec := httptest.NewRecorder()
	h.ResendCode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, verifier.resent)
}
