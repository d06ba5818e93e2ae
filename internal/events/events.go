package events

import (
	"context"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// Event topic constants
const (
	TopicContactCreated = "contacts.contact.created"
	TopicContactUpdated = "contacts.contact.updated"
	TopicContactDeleted = "contacts.contact.deleted"

	// TopicAll matches every contact event.
	TopicAll = "contacts.>"
)

// Event types

type ContactCreated struct {
	EventID string         `json:"event_id"`
	Contact *model.Contact `json:"contact"`
}

type ContactUpdated struct {
	EventID string         `json:"event_id"`
	Contact *model.Contact `json:"contact"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ContactDeleted struct {
	EventID   string `json:"event_id"`
	ContactID int64  `json:"contact_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NoopPublisher discards events; it is used when no NATS URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
