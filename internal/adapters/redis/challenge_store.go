package redis

// Package redis provides Redis-based adapters for the lingua-ui system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
)

// ChallengeStore persists verification challenges keyed by user id. A plain
// SET with TTL gives the keyed-upsert atomicity the flow relies on: writing a
// new challenge unconditionally replaces the previous one, so a resend racing
// a verify can never leave two live codes for the same user.
type ChallengeStore struct {
	client redis.UniversalClient
	prefix string
}

// NewChallengeStore creates a Redis-based challenge store.
func NewChallengeStore(client redis.UniversalClient) *ChallengeStore {
	return &ChallengeStore{client: client, prefix: "verify:"}
}

// NewChallengeStoreWithPrefix creates a challenge store with a custom key prefix.
func NewChallengeStoreWithPrefix(client redis.UniversalClient, prefix string) *ChallengeStore {
	return &ChallengeStore{client: client, prefix: prefix}
}

// Put stores a challenge, replacing any live one for the same user. The key
// TTL is derived from the challenge expiry, so Redis reaps stale codes on its
// own.
func (s *ChallengeStore) Put(ctx context.Context, ch domainauth.Challenge) error {
	if ch.UserID == "" {
		return errors.New("challenge user id cannot be empty")
	}

	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		return errors.New("challenge is already expired")
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	return s.client.Set(ctx, s.prefix+ch.UserID, data, ttl).Err()
}

// Get returns the live challenge for a user, or ErrNotFound.
func (s *ChallengeStore) Get(ctx context.Context, userID string) (domainauth.Challenge, error) {
	if userID == "" {
		return domainauth.Challenge{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Challenge{}, ErrNotFound
		}
		return domainauth.Challenge{}, fmt.Errorf("redis get: %w", err)
	}

	var ch domainauth.Challenge
	if unmarshalErr := json.Unmarshal([]byte(data), &ch); unmarshalErr != nil {
		return domainauth.Challenge{}, fmt.Errorf("unmarshal challenge: %w", unmarshalErr)
	}

	// Double-check expiry; Redis TTL should have reaped it already.
	if ch.Expired(time.Now()) {
		if deleteErr := s.Delete(ctx, userID); deleteErr != nil {
			return domainauth.Challenge{}, fmt.Errorf("cleanup expired challenge: %w", deleteErr)
		}
		return domainauth.Challenge{}, ErrNotFound
	}

	return ch, nil
}

// Delete consumes the challenge for a user. Deleting a missing key is a no-op.
func (s *ChallengeStore) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	return s.client.Del(ctx, s.prefix+userID).Err()
}

// ErrNotFound is returned when no live challenge exists for a user.
type notFoundError struct{}

func (notFoundError) Error() string { return "challenge not found" }

var ErrNotFound error = notFoundError{}
