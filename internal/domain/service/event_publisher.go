package service

import (
	"context"
	"time"
)

// Design event types emitted by the customization engine. External consumers
// (mailers, activity feeds, admin dashboards) subscribe to these instead of
// being called from the core.
const (
	EventBoxClaimed   = "box.claimed"
	EventCardDetached = "card.detached"
	EventCardPromoted = "card.promoted"
)

// DesignEvent describes a completed mutation of the design graph.
type DesignEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	BoxID      string    `json:"box_id"`
	CardID     string    `json:"card_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"` // empty for guest actors
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing design events to a message queue.
type EventPublisher interface {
	// PublishDesignEvent publishes a design event for async consumption.
	// Publishing happens after the transaction commits; a publish failure is
	// logged by the caller, never surfaced to the client.
	PublishDesignEvent(ctx context.Context, event *DesignEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
