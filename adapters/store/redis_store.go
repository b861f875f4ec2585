package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openquest/zklogin/core"
)

const (
	sessionKey = "zklogin:session"
	flightKey  = "zklogin:flight"

	// flightTTL bounds how long an abandoned login attempt lingers. A user
	// who never completes the provider round-trip leaves no ephemeral key
	// material behind once this expires.
	flightTTL = 15 * time.Minute
)

// RedisStore is a Redis implementation of SessionStore and FlightStore,
// giving the session durability across process restarts.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client, logger zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Save persists the session under the fixed session key.
func (s *RedisStore) Save(ctx context.Context, session *core.AuthSession) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	if err := s.client.Set(ctx, sessionKey, blob, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}

// Load restores the persisted session. A corrupt blob is deleted, logged and
// reported as absent so it can never crash the caller, only log the user out.
func (s *RedisStore) Load(ctx context.Context) (*core.AuthSession, error) {
	blob, err := s.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	var session core.AuthSession
	if err := json.Unmarshal(blob, &session); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt stored session")
		s.client.Del(ctx, sessionKey)
		return nil, nil
	}
	if err := session.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("discarding incomplete stored session")
		s.client.Del(ctx, sessionKey)
		return nil, nil
	}
	return &session, nil
}

// Clear removes the persisted session. Idempotent.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}

// Put writes the in-flight login attempt with a bounded TTL.
func (s *RedisStore) Put(ctx context.Context, attempt *core.LoginAttempt) error {
	blob, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	if err := s.client.Set(ctx, flightKey, blob, flightTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}

// Get returns the pending login attempt, or (nil, nil) when none is stored.
func (s *RedisStore) Get(ctx context.Context) (*core.LoginAttempt, error) {
	blob, err := s.client.Get(ctx, flightKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}

	var attempt core.LoginAttempt
	if err := json.Unmarshal(blob, &attempt); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt login attempt")
		s.client.Del(ctx, flightKey)
		return nil, nil
	}
	return &attempt, nil
}

// Delete removes the pending login attempt. Idempotent.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, flightKey).Err(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrStoreOperationFailed, err)
	}
	return nil
}
