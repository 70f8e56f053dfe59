// Package events publishes comment activity to the message broker.
package events

import (
	"context"
	"time"
)

// Routing keys; each is also the name of a durable queue.
const (
	CommentCreated = "comment.created"
	CommentReplied = "comment.replied"
)

// CommentEvent is the payload of both routing keys.
type CommentEvent struct {
	CommentID     int64     `json:"comment_id"`
	UserID        int64     `json:"user_id"`
	ReplyTo       *int64    `json:"reply_to"`
	ParentOwnerID int64     `json:"parent_owner_id,omitempty"`
	Text          string    `json:"text"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

func (Noop) Close() error { return nil }
