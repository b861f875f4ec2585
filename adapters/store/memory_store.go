package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/openquest/zklogin/core"
)

// MemoryStore is an in-memory implementation of SessionStore and
// FlightStore for single-process use and tests. Blobs are stored in their
// serialized form so save/load semantics match the durable backends.
type MemoryStore struct {
	mu           sync.RWMutex
	session      []byte
	flight       []byte
	flightExpiry time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save persists the session blob. The write is a whole-blob replace.
func (s *MemoryStore) Save(ctx context.Context, session *core.AuthSession) error {
	blob, err := json.Marshal(session)
	if err != nil {
		return core.ErrStoreOperationFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = blob
	return nil
}

// Load restores the persisted session. Corrupt blobs are deleted and
// reported as absent, never returned or raised.
func (s *MemoryStore) Load(ctx context.Context) (*core.AuthSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, nil
	}

	var session core.AuthSession
	if err := json.Unmarshal(s.session, &session); err != nil {
		s.session = nil
		return nil, nil
	}
	if err := session.Validate(); err != nil {
		s.session = nil
		return nil, nil
	}
	return &session, nil
}

// Clear removes the persisted session. Idempotent.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

// Put writes the in-flight login attempt.
func (s *MemoryStore) Put(ctx context.Context, attempt *core.LoginAttempt) error {
	blob, err := json.Marshal(attempt)
	if err != nil {
		return core.ErrStoreOperationFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flight = blob
	s.flightExpiry = time.Now().Add(flightTTL)
	return nil
}

// Get returns the pending login attempt, or (nil, nil) when none is stored
// or the stored one has expired.
func (s *MemoryStore) Get(ctx context.Context) (*core.LoginAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.flight == nil || time.Now().After(s.flightExpiry) {
		return nil, nil
	}

	var attempt core.LoginAttempt
	if err := json.Unmarshal(s.flight, &attempt); err != nil {
		return nil, nil
	}
	return &attempt, nil
}

// Delete removes the pending login attempt. Idempotent.
func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flight = nil
	return nil
}
