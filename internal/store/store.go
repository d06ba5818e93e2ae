package store

import (
	"context"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// Store defines the persistence interface for contacts.
//
// Implementations own their collection exclusively: every returned contact is
// a copy, and List returns contacts in insertion order.
type Store interface {
	// Create validates in, assigns an ID and creation time, and persists the new contact.
	Create(ctx context.Context, in model.ContactInput) (*model.Contact, error)
	// Update replaces the mutable fields of the contact with the given ID,
	// keeping its ID and creation time.
	Update(ctx context.Context, id int64, in model.ContactInput) (*model.Contact, error)
	// Delete removes every contact with the given ID. Deleting a missing ID succeeds.
	Delete(ctx context.Context, id int64) error
	// Get returns the contact with the given ID or a *NotFoundError.
	Get(ctx context.Context, id int64) (*model.Contact, error)
	// List returns all contacts in insertion order.
	List(ctx context.Context) ([]*model.Contact, error)

	// Lifecycle
	Close() error
}
