package ports

import (
	"context"

	"github.com/openquest/zklogin/core"
)

// SessionStore persists the single AuthSession across restarts.
type SessionStore interface {
	// Save persists the session. In-memory state changes only after the
	// write has succeeded.
	Save(ctx context.Context, session *core.AuthSession) error

	// Load restores the persisted session. A missing blob returns
	// (nil, nil); a corrupt blob is deleted and also returns (nil, nil).
	Load(ctx context.Context) (*core.AuthSession, error)

	// Clear removes the persisted session. Idempotent.
	Clear(ctx context.Context) error
}

// FlightStore holds the short-lived state of an in-flight login attempt
// between the provider redirect and the callback.
type FlightStore interface {
	// Put writes the attempt. It must complete before the redirect URL is
	// handed out, so a fast provider round-trip cannot race the write.
	Put(ctx context.Context, attempt *core.LoginAttempt) error

	// Get returns the pending attempt, or (nil, nil) when none is stored.
	Get(ctx context.Context) (*core.LoginAttempt, error)

	// Delete removes the pending attempt. Idempotent.
	Delete(ctx context.Context) error
}
