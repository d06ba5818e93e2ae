package sync

import (
	"context"
	"errors"
	"sync"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// mockLister is an in-memory Lister for testing.
type mockLister struct {
	mu       sync.Mutex
	contacts []*model.Contact
	err      error
}

func newMockLister(contacts ...*model.Contact) *mockLister {
	return &mockLister{contacts: contacts}
}

func (m *mockLister) List(_ context.Context) ([]*model.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.Contact, len(m.contacts))
	for i, c := range m.contacts {
		out[i] = c.Clone()
	}
	return out, nil
}

var errListFailed = errors.New("list failed")

func sampleContacts() []*model.Contact {
	return []*model.Contact{
		{ID: 1700000000002, Name: "Zed", Phone: "555-0002", Created: "2023-11-14 22:13:20"},
		{ID: 1700000000001, Name: "Alice <a&b>", Phone: "555-0001", Email: "alice@example.com", Address: "1 Main St", Created: "2023-11-14 22:13:20"},
	}
}
