package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{Secret: "test-signing-secret"})
	require.NoError(t, err)
	return codec
}

func testIdentity() domainauth.Identity {
	return domainauth.Identity{
		ID:    "u-123",
		Name:  "Demo Student",
		Email: "demo@example.com",
		Image: "https://cdn.example.com/u-123.png",
		Role:  domainauth.PlainRole(domainauth.RoleStudent),
	}
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{})
	assert.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(testIdentity(), "credentials")
	require.NoError(t, err)

	sess, refresh, err := codec.Decode(token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.False(t, refresh)

	assert.Equal(t, "u-123", sess.User.ID)
	assert.Equal(t, "Demo Student", sess.User.Name)
	assert.Equal(t, "demo@example.com", sess.User.Email)
	assert.Equal(t, "https://cdn.example.com/u-123.png", sess.User.Image)
	assert.Equal(t, "student", sess.User.Role.Name())
	assert.Equal(t, "credentials", sess.Provider)
	assert.WithinDuration(t, time.Now().Add(DefaultMaxAge), sess.ExpiresAt, time.Minute)
}

func TestCodec_RoundTrip_StructuredRole(t *testing.T) {
	codec := newTestCodec(t)

	identity := testIdentity()
	identity.Role = domainauth.StructuredRole(domainauth.RoleRecord{ID: "r-1", RoleName: "admin"})

	token, err := codec.Encode(identity, "google")
	require.NoError(t, err)

	sess, _, err := codec.Decode(token)
	require.NoError(t, err)
	assert.True(t, sess.IsAdmin())

	rec, structured := sess.User.Role.Record()
	require.True(t, structured, "structured role form must survive the round trip")
	assert.Equal(t, "r-1", rec.ID)
}

func TestCodec_Decode_Expired(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(testIdentity(), "")
	require.NoError(t, err)

	// Jump past the 30-day window.
	codec.now = func() time.Time { return time.Now().Add(DefaultMaxAge + time.Hour) }

	_, _, err = codec.Decode(token)
	assert.True(t, apperrors.IsInvalidSession(err))
}

func TestCodec_Decode_Tampered(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(testIdentity(), "")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, _, err = codec.Decode(tampered)
	assert.True(t, apperrors.IsInvalidSession(err))
}

func TestCodec_Decode_WrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec(Config{Secret: "a-different-secret"})
	require.NoError(t, err)

	token, err := other.Encode(testIdentity(), "")
	require.NoError(t, err)

	_, _, err = codec.Decode(token)
	assert.True(t, apperrors.IsInvalidSession(err))
}

func TestCodec_Decode_MissingExpiryRejected(t *testing.T) {
	codec := newTestCodec(t)

	// A correctly-signed token minted elsewhere without an exp claim must
	// surface as an invalid session, never as a valid unlimited one.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "u-123",
			Issuer:   DefaultIssuer,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
	token, err := foreign.SignedString([]byte("test-signing-secret"))
	require.NoError(t, err)

	_, _, err = codec.Decode(token)
	assert.True(t, apperrors.IsInvalidSession(err))
}

func TestCodec_Decode_EmptyToken(t *testing.T) {
	codec := newTestCodec(t)
	_, _, err := codec.Decode("")
	assert.True(t, apperrors.IsInvalidSession(err))
}

func TestCodec_SlidingRefreshThreshold(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Encode(testIdentity(), "")
	require.NoError(t, err)

	// Past the halfway point of the validity window the decode reports that
	// the token should be re-issued.
	codec.now = func() time.Time { return time.Now().Add(16 * 24 * time.Hour) }

	sess, refresh, err := codec.Decode(token)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, refresh)
}

func TestSafeCallbackURL(t *testing.T) {
	const base = "https://app.linguahub.io"

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty falls back to base", "", base},
		{"relative path accepted", "/dashboard", "/dashboard"},
		{"relative with query accepted", "/courses/enrolled?page=2", "/courses/enrolled?page=2"},
		{"same-origin absolute accepted", base + "/profile", base + "/profile"},
		{"foreign origin rejected", "https://evil.example.com", base},
		{"foreign origin with path rejected", "https://evil.example.com/auth", base},
		{"protocol-relative rejected", "//evil.example.com/x", base},
		{"backslash trick rejected", "/\\evil.example.com", base},
		{"scheme mismatch rejected", "http://app.linguahub.io/profile", base},
		{"garbage rejected", "ht!tp://%zz", base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeCallbackURL(tt.raw, base))
		})
	}
}
