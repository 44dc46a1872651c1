package events

import (
	"context"
	"time"
)

type Type string

const (
	UserRegistered    Type = "user.registered"
	UserAuthenticated Type = "user.authenticated"
	UserLoggedOut     Type = "user.logged_out"
)

type Event struct {
	Type       Type      `json:"type"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
