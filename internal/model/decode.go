package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeContacts parses a persisted contact list. The document must be a JSON
// array; anything else is an error. Entries that are structurally malformed
// (not an object, a non-integer id, missing or empty name/phone, wrong field
// types, or an id already seen) are skipped and counted instead of failing
// the whole decode.
func DecodeContacts(data []byte) ([]*Contact, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode contacts: %w", err)
	}

	contacts := make([]*Contact, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	skipped := 0
	for _, entry := range raw {
		c, ok := decodeContact(entry)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[c.ID]; dup {
			skipped++
			continue
		}
		seen[c.ID] = struct{}{}
		contacts = append(contacts, c)
	}
	return contacts, skipped, nil
}

func decodeContact(entry json.RawMessage) (*Contact, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
		return nil, false
	}

	var c Contact
	idRaw, ok := fields["id"]
	if !ok || json.Unmarshal(idRaw, &c.ID) != nil || strings.TrimSpace(string(idRaw)) == "null" {
		return nil, false
	}

	for key, dst := range map[string]*string{
		"name":    &c.Name,
		"phone":   &c.Phone,
		"email":   &c.Email,
		"address": &c.Address,
		"created": &c.Created,
	} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if json.Unmarshal(v, dst) != nil {
			return nil, false
		}
	}

	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		return nil, false
	}
	return &c, true
}

// EncodeContacts renders contacts in the persisted file format.
func EncodeContacts(contacts []*Contact) ([]byte, error) {
	if contacts == nil {
		contacts = []*Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode contacts: %w", err)
	}
	return append(data, '\n'), nil
}
