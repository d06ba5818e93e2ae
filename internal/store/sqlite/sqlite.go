// Package sqlite implements the store.Store interface backed by a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alfredjeanlab/contacts/internal/idgen"
	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/store"
)

const schema = `CREATE TABLE IF NOT EXISTS contacts (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      INTEGER NOT NULL UNIQUE,
	name    TEXT NOT NULL,
	phone   TEXT NOT NULL,
	email   TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	created TEXT NOT NULL
)`

// Store implements store.Store backed by a SQLite database.
type Store struct {
	db   *sql.DB
	path string // reported in *store.SaveError
	now  func() time.Time
	seq  *idgen.Sequence
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for IDs and creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New opens (or creates) the SQLite database at path.
// Use ":memory:" for an in-memory database.
func New(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// One connection: the address book has a single writer, and ":memory:"
	// databases are per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s, err := NewFromDB(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.path = path
	return s, nil
}

// NewFromDB wraps an open database, creating the schema if needed.
func NewFromDB(ctx context.Context, db *sql.DB, opts ...Option) (*Store, error) {
	s := &Store{db: db, path: "sqlite", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.seq = idgen.NewSequence(s.now)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	maxID, err := queryMaxID(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read max id: %w", err)
	}
	s.seq.Observe(maxID)
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}
	in = in.Normalize()

	c := &model.Contact{
		ID:      s.seq.Next(),
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Created: model.FormatCreated(s.now()),
	}
	if err := queryCreateContact(ctx, s.db, c); err != nil {
		return nil, s.saveError(fmt.Errorf("insert contact: %w", err))
	}
	return c, nil
}

func (s *Store) Update(ctx context.Context, id int64, in model.ContactInput) (*model.Contact, error) {
	if err := model.ValidateInput(in); err != nil {
		return nil, err
	}
	in = in.Normalize()

	n, err := queryUpdateContact(ctx, s.db, id, in)
	if err != nil {
		return nil, s.saveError(fmt.Errorf("update contact %d: %w", id, err))
	}
	if n == 0 {
		return nil, &store.NotFoundError{ID: id}
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := queryDeleteContact(ctx, s.db, id); err != nil {
		return s.saveError(fmt.Errorf("delete contact %d: %w", id, err))
	}
	return nil
}

// saveError reports a failed write the same way the file store does.
func (s *Store) saveError(err error) error {
	return &store.SaveError{Path: s.path, Err: err}
}

func (s *Store) Get(ctx context.Context, id int64) (*model.Contact, error) {
	c, err := queryGetContact(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &store.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) List(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := queryListContacts(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}
