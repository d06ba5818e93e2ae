package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// contactRowColumns is the column list for scanContact results.
var contactRowColumns = []string{"id", "name", "phone", "email", "address", "created"}

// expectInit sets up the schema and max-id expectations run by NewFromDB.
func expectInit(mock sqlmock.Sqlmock, maxID int64) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\), 0\) FROM contacts`).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(maxID))
}

func newMockStore(t *testing.T, maxID int64, now time.Time) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	expectInit(mock, maxID)
	s, err := NewFromDB(context.Background(), db, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewFromDB() error: %v", err)
	}
	return s, mock
}

func TestNewFromDB_SchemaError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnError(errors.New("database is locked"))

	if _, err := NewFromDB(context.Background(), db); err == nil {
		t.Fatal("expected error from schema creation")
	}
}

func TestCreate_IDAboveExistingMax(t *testing.T) {
	now := time.UnixMilli(1000)
	s, mock := newMockStore(t, 5000, now)

	mock.ExpectExec("INSERT INTO contacts").
		WithArgs(int64(5001), "Alice", "555", "", "", model.FormatCreated(now)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, err := s.Create(context.Background(), model.ContactInput{Name: "Alice", Phone: "555"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if c.ID != 5001 {
		t.Errorf("ID = %d, want 5001", c.ID)
	}
}

func TestCreate_InsertError(t *testing.T) {
	s, mock := newMockStore(t, 0, time.UnixMilli(1000))
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("disk I/O error"))

	_, err := s.Create(context.Background(), model.ContactInput{Name: "A", Phone: "1"})
	var se *store.SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Create() error = %v, want *store.SaveError", err)
	}
}

func TestWriteErrorsAreSaveErrors(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	diskErr := errors.New("disk I/O error")
	mock.ExpectExec("UPDATE contacts SET").WillReturnError(diskErr)
	mock.ExpectExec(`DELETE FROM contacts WHERE id = \?`).WillReturnError(diskErr)

	_, updateErr := s.Update(context.Background(), 7, model.ContactInput{Name: "Bob", Phone: "2"})
	deleteErr := s.Delete(context.Background(), 7)

	for name, err := range map[string]error{"Update": updateErr, "Delete": deleteErr} {
		var se *store.SaveError
		if !errors.As(err, &se) {
			t.Errorf("%s() error = %v, want *store.SaveError", name, err)
			continue
		}
		if !errors.Is(err, diskErr) {
			t.Errorf("%s() error does not wrap the driver error: %v", name, err)
		}
	}
}

func TestUpdate_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	mock.ExpectExec("UPDATE contacts SET").
		WithArgs("Bob", "2", "", "", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.Update(context.Background(), 7, model.ContactInput{Name: " Bob ", Phone: "2"})
	var nf *store.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 7 {
		t.Fatalf("Update() error = %v, want *store.NotFoundError{7}", err)
	}
}

func TestUpdate_ValidationSkipsQuery(t *testing.T) {
	s, _ := newMockStore(t, 0, time.Now())
	// No UPDATE expectation: an unexpected query would fail ExpectationsWereMet.
	if _, err := s.Update(context.Background(), 7, model.ContactInput{Name: "", Phone: "2"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGet_NoRowsIsNotFound(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM contacts WHERE id = \?`).WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(contactRowColumns))

	if _, err := s.Get(context.Background(), 42); !store.IsNotFound(err) {
		t.Fatalf("Get() error = %v, want not found", err)
	}
}

func TestList_ScansNullOptionalFields(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM contacts ORDER BY seq`).
		WillReturnRows(sqlmock.NewRows(contactRowColumns).
			AddRow(int64(1), "Alice", "555", nil, nil, "2024-01-01 00:00:00").
			AddRow(int64(2), "Bob", "556", "b@x.io", "Street", "2024-01-02 00:00:00"))

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Email != "" || list[0].Address != "" {
		t.Errorf("null columns should scan as empty: %+v", list[0])
	}
	if list[1].Email != "b@x.io" || list[1].Address != "Street" {
		t.Errorf("list[1] = %+v", list[1])
	}
}

func TestList_QueryError(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM contacts ORDER BY seq`).WillReturnError(errors.New("boom"))

	if _, err := s.List(context.Background()); err == nil {
		t.Fatal("expected list error")
	}
}

func TestDelete_Exec(t *testing.T) {
	s, mock := newMockStore(t, 0, time.Now())
	mock.ExpectExec(`DELETE FROM contacts WHERE id = \?`).WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
}
