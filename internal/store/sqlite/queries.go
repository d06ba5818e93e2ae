package sqlite

import (
	"context"
	"database/sql"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// contactColumns is the column list used for SELECT statements on the contacts table.
const contactColumns = `id, name, phone, email, address, created`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryMaxID(ctx context.Context, db executor) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM contacts`).Scan(&id)
	return id, err
}

func queryCreateContact(ctx context.Context, db executor, c *model.Contact) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO contacts (id, name, phone, email, address, created)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Name,
		c.Phone,
		c.Email,
		c.Address,
		c.Created,
	)
	return err
}

// queryUpdateContact returns the number of rows changed.
func queryUpdateContact(ctx context.Context, db executor, id int64, in model.ContactInput) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE contacts SET name = ?, phone = ?, email = ?, address = ?
		WHERE id = ?`,
		in.Name,
		in.Phone,
		in.Email,
		in.Address,
		id,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func queryDeleteContact(ctx context.Context, db executor, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	return err
}

func queryGetContact(ctx context.Context, db executor, id int64) (*model.Contact, error) {
	row := db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	return scanContact(row)
}

func queryListContacts(ctx context.Context, db executor) ([]*model.Contact, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []*model.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
