package model

import (
	"testing"
	"time"
)

func TestFormatCreated(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 9, 7, 3, 999_000_000, time.Local)
	if got, want := FormatCreated(ts), "2024-03-05 09:07:03"; got != want {
		t.Errorf("FormatCreated() = %q, want %q", got, want)
	}
}

func TestContact_CreatedAt(t *testing.T) {
	c := &Contact{Created: "2024-03-05 09:07:03"}
	want := time.Date(2024, time.March, 5, 9, 7, 3, 0, time.Local)
	if got := c.CreatedAt(); !got.Equal(want) {
		t.Errorf("CreatedAt() = %v, want %v", got, want)
	}

	bad := &Contact{Created: "yesterday"}
	if got := bad.CreatedAt(); !got.IsZero() {
		t.Errorf("CreatedAt() for unparsable value = %v, want zero", got)
	}
}

func TestContact_Clone(t *testing.T) {
	orig := &Contact{ID: 1, Name: "Alice", Phone: "555"}
	cp := orig.Clone()
	cp.Name = "Changed"
	if orig.Name != "Alice" {
		t.Errorf("Clone shares state: original name = %q", orig.Name)
	}

	var nilContact *Contact
	if nilContact.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestContactInput_Normalize(t *testing.T) {
	in := ContactInput{
		Name:    "  Alice Smith \t",
		Phone:   "\n555-1234 ",
		Email:   " alice@example.com ",
		Address: "  1 Main St\nSpringfield  ",
	}
	got := in.Normalize()
	want := ContactInput{
		Name:    "Alice Smith",
		Phone:   "555-1234",
		Email:   "alice@example.com",
		Address: "1 Main St\nSpringfield",
	}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}
}

func TestContact_Apply(t *testing.T) {
	c := &Contact{ID: 42, Name: "Old", Phone: "1", Email: "o@x", Address: "a", Created: "2024-01-01 00:00:00"}
	got := c.Apply(ContactInput{Name: "New", Phone: "2"})
	if got.ID != 42 || got.Created != "2024-01-01 00:00:00" {
		t.Errorf("Apply changed identity: id=%d created=%q", got.ID, got.Created)
	}
	if got.Name != "New" || got.Phone != "2" || got.Email != "" || got.Address != "" {
		t.Errorf("Apply() = %+v, want replaced fields", got)
	}
	if c.Name != "Old" {
		t.Error("Apply mutated the receiver")
	}
}

func TestContact_Input(t *testing.T) {
	c := &Contact{ID: 1, Name: "A", Phone: "1", Email: "e", Address: "ad"}
	want := ContactInput{Name: "A", Phone: "1", Email: "e", Address: "ad"}
	if got := c.Input(); got != want {
		t.Errorf("Input() = %+v, want %+v", got, want)
	}
}
