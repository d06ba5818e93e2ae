// Package book is the address book service used by the presentation layer.
// It runs every operation against a store.Store and announces successful
// mutations on an events.Publisher.
package book

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alfredjeanlab/contacts/internal/events"
	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/store"
)

// Book wraps a store with event publishing and logging.
type Book struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// New returns a Book. A nil publisher disables events; a nil logger uses slog.Default.
func New(s store.Store, p events.Publisher, logger *slog.Logger) *Book {
	if p == nil {
		p = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Book{store: s, publisher: p, logger: logger}
}

// Create adds a contact. When the store kept the contact but could not
// persist it, the contact is returned together with the error and no event is sent.
func (b *Book) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	c, err := b.store.Create(ctx, in)
	if err != nil {
		if c != nil {
			b.logger.Error("contact created but not saved", "id", c.ID, "err", err)
		}
		return c, err
	}
	b.logger.Debug("contact created", "id", c.ID)
	b.publish(ctx, events.TopicContactCreated, c.ID, events.ContactCreated{
		EventID: newEventID(),
		Contact: c,
	})
	return c, nil
}

// Update replaces the editable fields of contact id.
func (b *Book) Update(ctx context.Context, id int64, in model.ContactInput) (*model.Contact, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}
	before, err := b.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := b.store.Update(ctx, id, in)
	if err != nil {
		if c != nil {
			b.logger.Error("contact updated but not saved", "id", id, "err", err)
		}
		return c, err
	}
	changes := diff(before, c)
	b.logger.Debug("contact updated", "id", id, "changed", len(changes))
	if len(changes) > 0 {
		b.publish(ctx, events.TopicContactUpdated, id, events.ContactUpdated{
			EventID: newEventID(),
			Contact: c,
			Changes: changes,
		})
	}
	return c, nil
}

// Delete removes contact id. It reports whether a contact was removed;
// deleting a missing id is not an error.
func (b *Book) Delete(ctx context.Context, id int64) (bool, error) {
	_, err := b.store.Get(ctx, id)
	existed := err == nil
	if err != nil && !store.IsNotFound(err) {
		return false, err
	}
	if err := b.store.Delete(ctx, id); err != nil {
		return existed, err
	}
	if existed {
		b.logger.Debug("contact deleted", "id", id)
		b.publish(ctx, events.TopicContactDeleted, id, events.ContactDeleted{
			EventID:   newEventID(),
			ContactID: id,
		})
	}
	return existed, nil
}

// Get returns contact id.
func (b *Book) Get(ctx context.Context, id int64) (*model.Contact, error) {
	return b.store.Get(ctx, id)
}

// List returns every contact in insertion order.
func (b *Book) List(ctx context.Context) ([]*model.Contact, error) {
	return b.store.List(ctx)
}

// Search returns the contacts matching query in insertion order.
func (b *Book) Search(ctx context.Context, query string) ([]*model.Contact, error) {
	all, err := b.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.Search(all, query), nil
}

// Directory returns the contacts matching query sorted by name, the order
// used for display.
func (b *Book) Directory(ctx context.Context, query string) ([]*model.Contact, error) {
	found, err := b.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return model.SortByName(found), nil
}

// publish is best-effort; failures are logged but do not fail the operation.
func (b *Book) publish(ctx context.Context, topic string, id int64, event any) {
	if err := b.publisher.Publish(ctx, topic, event); err != nil {
		b.logger.Warn("failed to publish event", "topic", topic, "contact_id", id, "err", err)
	}
}

func newEventID() string {
	return uuid.NewString()
}

// diff returns the editable fields that differ between before and after.
func diff(before, after *model.Contact) map[string]any {
	changes := map[string]any{}
	if before.Name != after.Name {
		changes["name"] = after.Name
	}
	if before.Phone != after.Phone {
		changes["phone"] = after.Phone
	}
	if before.Email != after.Email {
		changes["email"] = after.Email
	}
	if before.Address != after.Address {
		changes["address"] = after.Address
	}
	return changes
}
