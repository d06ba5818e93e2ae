// Package idgen provides contact ID generation and short random tokens.
//
// Contact IDs are integers derived from the wall clock in milliseconds, as the
// address book file has always stored them, but a Sequence never hands out
// the same value twice: when two IDs are requested within one millisecond (or
// the clock steps backwards) the next ID is the previous one plus one.
package idgen

import (
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for random tokens.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TokenLength is the number of random characters in a token.
var TokenLength = 10

// Sequence generates strictly increasing, time-derived contact IDs.
type Sequence struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewSequence returns a Sequence reading the given clock. A nil clock means time.Now.
func NewSequence(now func() time.Time) *Sequence {
	if now == nil {
		now = time.Now
	}
	return &Sequence{now: now}
}

// Next returns max(now in milliseconds, previous ID + 1).
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records an ID that already exists so Next never returns it or anything below it.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}

// Token returns a short random URL-safe string.
func Token() (string, error) {
	tok, err := nanoid.Generate(Alphabet, TokenLength)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return tok, nil
}

// TokenWithPrefix returns a new random token with the given prefix.
func TokenWithPrefix(prefix string) (string, error) {
	tok, err := Token()
	if err != nil {
		return "", err
	}
	return prefix + tok, nil
}
