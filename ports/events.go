package ports

import "context"

// EventPublisher notifies other components of session lifecycle changes.
type EventPublisher interface {
	PublishLogin(ctx context.Context, address string, maxEpoch uint64) error
	PublishLogout(ctx context.Context, address string) error
}
