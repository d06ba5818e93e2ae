package model

import (
	"strings"
	"time"
)

// CreatedLayout is the fixed layout of Contact.Created.
const CreatedLayout = "2006-01-02 15:04:05"

// Contact is one address book entry.
type Contact struct {
	ID      int64  `json:"id"      yaml:"id"`
	Name    string `json:"name"    yaml:"name"`
	Phone   string `json:"phone"   yaml:"phone"`
	Email   string `json:"email"   yaml:"email"`
	Address string `json:"address" yaml:"address"`
	Created string `json:"created" yaml:"created"`
}

// Clone returns a copy of c so callers never share a pointer with a store.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// CreatedAt parses Created in the local time zone. It returns the zero time
// if Created is empty or does not match CreatedLayout.
func (c *Contact) CreatedAt() time.Time {
	t, err := time.ParseInLocation(CreatedLayout, c.Created, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatCreated renders t with second precision in CreatedLayout.
func FormatCreated(t time.Time) string {
	return t.Format(CreatedLayout)
}

// ContactInput holds the user-editable fields of a contact.
type ContactInput struct {
	Name    string `json:"name"    validate:"required"`
	Phone   string `json:"phone"   validate:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Normalize returns a copy of in with surrounding whitespace trimmed from every field.
func (in ContactInput) Normalize() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.TrimSpace(in.Email),
		Address: strings.TrimSpace(in.Address),
	}
}

// Input returns the editable fields of c.
func (c *Contact) Input() ContactInput {
	return ContactInput{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
	}
}

// Apply returns a new contact carrying c's ID and Created with the fields of in.
func (c *Contact) Apply(in ContactInput) *Contact {
	return &Contact{
		ID:      c.ID,
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Created: c.Created,
	}
}
