package model

import (
	"slices"
	"strings"
)

// Search returns the contacts whose lower-cased name contains the lower-cased,
// trimmed query, or whose phone contains it. An empty query returns contacts
// unchanged. Order is preserved; the result is not sorted.
func Search(contacts []*Contact, query string) []*Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return contacts
	}

	var result []*Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q) {
			result = append(result, c)
		}
	}
	return result
}

// SortByName returns a copy of contacts stably sorted by lower-cased name.
func SortByName(contacts []*Contact) []*Contact {
	sorted := slices.Clone(contacts)
	slices.SortStableFunc(sorted, func(a, b *Contact) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return sorted
}
