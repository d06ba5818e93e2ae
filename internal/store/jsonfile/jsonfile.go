// Package jsonfile implements the store.Store interface backed by a single
// JSON file that is rewritten in full after every mutation.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/alfredjeanlab/contacts/internal/idgen"
	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/store"
)

// DefaultPath is the file used when no path is configured.
const DefaultPath = "contacts.json"

// LoadStatus says where the in-memory collection came from.
type LoadStatus int

const (
	// LoadStatusNew means the file did not exist; the collection starts empty.
	LoadStatusNew LoadStatus = iota
	// LoadStatusLoaded means the file was read and decoded.
	LoadStatusLoaded
	// LoadStatusRecovered means the file was unreadable or malformed and the
	// collection was reset to empty. The file itself is left untouched.
	LoadStatusRecovered
)

func (s LoadStatus) String() string {
	switch s {
	case LoadStatusNew:
		return "new"
	case LoadStatusLoaded:
		return "loaded"
	case LoadStatusRecovered:
		return "recovered"
	}
	return fmt.Sprintf("LoadStatus(%d)", int(s))
}

// LoadResult describes the outcome of Load.
type LoadResult struct {
	Status  LoadStatus
	Count   int              // contacts now in memory
	Skipped int              // malformed entries dropped while decoding
	Err     *store.LoadError // set when Status is LoadStatusRecovered
}

// Store implements store.Store over a JSON file.
type Store struct {
	path   string
	now    func() time.Time
	seq    *idgen.Sequence
	logger *slog.Logger

	mu       sync.Mutex
	contacts []*model.Contact
	dirty    bool
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for IDs and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report recovered loads.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns an empty store bound to path. Call Load to read the file.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{
		path:     path,
		now:      time.Now,
		logger:   slog.Default(),
		contacts: []*model.Contact{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seq = idgen.NewSequence(s.now)
	return s
}

// Open returns a store bound to path with the file already loaded.
func Open(path string, opts ...Option) (*Store, LoadResult) {
	s := New(path, opts...)
	return s, s.Load()
}

// Path returns the persistence file path.
func (s *Store) Path() string { return s.path }

// Dirty reports whether the in-memory collection has changes the file does not.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Load replaces the in-memory collection with the contents of the file.
// It never fails: a missing file yields an empty collection, and an
// unreadable or malformed file is reported in the result and also yields an
// empty collection.
func (s *Store) Load() LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.reset(nil)
		return LoadResult{Status: LoadStatusNew}
	}
	if err != nil {
		return s.fallback(err)
	}

	contacts, skipped, err := model.DecodeContacts(data)
	if err != nil {
		return s.fallback(err)
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed contacts", "path", s.path, "count", skipped)
	}
	s.reset(contacts)
	return LoadResult{Status: LoadStatusLoaded, Count: len(contacts), Skipped: skipped}
}

func (s *Store) fallback(err error) LoadResult {
	le := &store.LoadError{Path: s.path, Err: err}
	s.logger.Warn("contacts file unreadable, starting empty", "path", s.path, "err", err)
	s.reset(nil)
	return LoadResult{Status: LoadStatusRecovered, Err: le}
}

func (s *Store) reset(contacts []*model.Contact) {
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	s.contacts = contacts
	s.dirty = false
	for _, c := range contacts {
		s.seq.Observe(c.ID)
	}
}

// Save writes the whole collection to the file. On failure the in-memory
// collection is unchanged and Save may be retried.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	data, err := model.EncodeContacts(s.contacts)
	if err != nil {
		return &store.SaveError{Path: s.path, Err: err}
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return &store.SaveError{Path: s.path, Err: err}
	}
	s.dirty = false
	return nil
}

// Create validates in, appends a new contact and saves. When the save fails
// the contact stays in memory and is returned together with the *store.SaveError.
func (s *Store) Create(_ context.Context, in model.ContactInput) (*model.Contact, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}
	in = in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &model.Contact{
		ID:      s.seq.Next(),
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Created: model.FormatCreated(s.now()),
	}
	s.contacts = append(s.contacts, c)
	s.dirty = true
	return c.Clone(), s.save()
}

// Update replaces the first contact with the given ID, keeping its ID and
// creation time.
func (s *Store) Update(_ context.Context, id int64, in model.ContactInput) (*model.Contact, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}
	in = in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, &store.NotFoundError{ID: id}
	}
	c := s.contacts[i].Apply(in)
	s.contacts[i] = c
	s.dirty = true
	return c.Clone(), s.save()
}

// Delete removes every contact with the given ID and saves. Nothing is
// written when no contact matched.
func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.contacts)
	s.contacts = slices.DeleteFunc(s.contacts, func(c *model.Contact) bool { return c.ID == id })
	if len(s.contacts) == n {
		return nil
	}
	s.dirty = true
	return s.save()
}

// Get returns a copy of the contact with the given ID.
func (s *Store) Get(_ context.Context, id int64) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, &store.NotFoundError{ID: id}
	}
	return s.contacts[i].Clone(), nil
}

// List returns copies of all contacts in insertion order.
func (s *Store) List(_ context.Context) ([]*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Contact, len(s.contacts))
	for i, c := range s.contacts {
		out[i] = c.Clone()
	}
	return out, nil
}

// Reloader returns a read-only view of s whose List rereads the file first.
func (s *Store) Reloader() Reloader { return Reloader{s: s} }

// Reloader lists the contacts currently in the file rather than the ones
// loaded when the store was opened, so a long-running reader sees writes
// made by other processes. Each List replaces the store's in-memory
// collection, discarding unsaved changes.
type Reloader struct {
	s *Store
}

// List reloads the file and returns its contacts. An unreadable or
// malformed file is an error here rather than an empty list.
func (r Reloader) List(ctx context.Context) ([]*model.Contact, error) {
	if res := r.s.Load(); res.Err != nil {
		return nil, res.Err
	}
	return r.s.List(ctx)
}

// Close releases nothing; the file is closed after every write.
func (s *Store) Close() error {
	return nil
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.contacts, func(c *model.Contact) bool { return c.ID == id })
}

// writeFileAtomic writes data to a temp file next to path, syncs it, and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	name, err := idgen.TokenWithPrefix("." + filepath.Base(path) + ".tmp-")
	if err != nil {
		return err
	}
	tmp := filepath.Join(dir, name)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
