package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("contact not found")

// NotFoundError reports an operation on an ID that no contact carries.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact %d not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LoadError reports a persistence file that exists but could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failed write of the persistence file. The in-memory
// collection is still authoritative when it is returned.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is or wraps a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
