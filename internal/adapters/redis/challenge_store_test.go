package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
)

func newTestStore(t *testing.T) (*ChallengeStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewChallengeStore(client), mr
}

func testChallenge(userID string, window time.Duration) domainauth.Challenge {
	now := time.Now()
	return domainauth.Challenge{
		UserID:    userID,
		Code:      "482913",
		IssuedAt:  now,
		ExpiresAt: now.Add(window),
	}
}

func TestChallengeStore_PutGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ch := testChallenge("u-1", time.Minute)
	require.NoError(t, store.Put(ctx, ch))

	got, err := store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "482913", got.Code)
	assert.Equal(t, "u-1", got.UserID)
}

func TestChallengeStore_PutReplacesPrior(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := testChallenge("u-1", time.Minute)
	require.NoError(t, store.Put(ctx, first))

	second := testChallenge("u-1", time.Minute)
	second.Code = "175062"
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "175062", got.Code, "only the most recent challenge may be live")
}

func TestChallengeStore_Get_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChallengeStore_Get_EmptyUserID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChallengeStore_Put_RejectsExpired(t *testing.T) {
	store, _ := newTestStore(t)

	ch := testChallenge("u-1", -time.Second)
	assert.Error(t, store.Put(context.Background(), ch))
}

func TestChallengeStore_TTLReapsChallenge(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testChallenge("u-1", time.Minute)))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChallengeStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testChallenge("u-1", time.Minute)))
	require.NoError(t, store.Delete(ctx, "u-1"))

	_, err := store.Get(ctx, "u-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "u-1"))
}
