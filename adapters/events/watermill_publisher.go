package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/openquest/zklogin/ports"
)

const (
	loginTopic  = "zklogin.session.created"
	logoutTopic = "zklogin.session.cleared"
)

// LoginEvent announces a newly created session.
type LoginEvent struct {
	Address  string    `json:"address"`
	MaxEpoch uint64    `json:"max_epoch"`
	At       time.Time `json:"at"`
}

// LogoutEvent announces a cleared session.
type LogoutEvent struct {
	Address string    `json:"address"`
	At      time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a session-created event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address string, maxEpoch uint64) error {
	return p.publish(loginTopic, LoginEvent{Address: address, MaxEpoch: maxEpoch, At: time.Now()})
}

// PublishLogout publishes a session-cleared event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address string) error {
	return p.publish(logoutTopic, LogoutEvent{Address: address, At: time.Now()})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
