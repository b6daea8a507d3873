package democreds

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

func TestStore_Lookup_DemoAccount(t *testing.T) {
	store, err := NewStore(DefaultAccounts())
	require.NoError(t, err)

	user, err := store.Lookup(context.Background(), "demo@example.com")
	require.NoError(t, err)

	assert.Equal(t, "demo-student", user.ID)
	assert.Equal(t, "student", user.Role.Name())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("demo123")))
}

func TestStore_Lookup_CaseInsensitiveEmail(t *testing.T) {
	store, err := NewStore(DefaultAccounts())
	require.NoError(t, err)

	_, err = store.Lookup(context.Background(), "Demo@Example.COM")
	assert.NoError(t, err)
}

func TestStore_Lookup_Unknown(t *testing.T) {
	store, err := NewStore(DefaultAccounts())
	require.NoError(t, err)

	_, err = store.Lookup(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_Create_Conflict(t *testing.T) {
	store, err := NewStore(DefaultAccounts())
	require.NoError(t, err)

	_, err = store.Create(context.Background(), domainauth.User{
		Identity: domainauth.Identity{ID: "x", Email: "demo@example.com"},
	})
	assert.True(t, apperrors.IsConflict(err))
}

func TestNewStore_RejectsIncompleteAccount(t *testing.T) {
	_, err := NewStore([]Account{{Email: "a@b.c"}})
	assert.Error(t, err)
}
