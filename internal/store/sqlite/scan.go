package sqlite

import (
	"database/sql"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanContact scans a single row into a model.Contact.
// The row must contain columns in the order defined by contactColumns.
func scanContact(row scannable) (*model.Contact, error) {
	var c model.Contact
	var email, address sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &address, &c.Created); err != nil {
		return nil, err
	}
	c.Email = email.String
	c.Address = address.String
	return &c, nil
}
