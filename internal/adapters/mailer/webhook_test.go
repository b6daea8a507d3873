package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendCodePostsMessage(t *testing.T) {
	var got message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	w, err := NewWebhook(Config{EndpointURL: srv.URL, FromAddress: "codes@linguahub.app"})
	require.NoError(t, err)

	err = w.SendCode(context.Background(), "student@example.com", "482931")

	require.NoError(t, err)
	assert.Equal(t, "student@example.com", got.To)
	assert.Equal(t, "codes@linguahub.app", got.From)
	assert.Equal(t, "482931", got.Code)
	assert.NotEmpty(t, got.Subject)
}

func TestSendCodeEndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w, err := NewWebhook(Config{EndpointURL: srv.URL})
	require.NoError(t, err)

	assert.Error(t, w.SendCode(context.Background(), "student@example.com", "482931"))
}

func TestNewWebhookRequiresEndpoint(t *testing.T) {
	_, err := NewWebhook(Config{})
	assert.Error(t, err)
}
