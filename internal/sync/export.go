package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/contacts/internal/model"
)

// Lister is the read side of a contact store used by exports.
type Lister interface {
	List(ctx context.Context) ([]*model.Contact, error)
}

// Format selects an export encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, jsonl or yaml)", s)
	}
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type used when uploading f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ContactCount int       `json:"contact_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string         `json:"type"`
	Data *model.Contact `json:"data"`
}

// Export writes every contact from l to w in the given format.
func Export(ctx context.Context, l Lister, format Format, w io.Writer) error {
	switch format {
	case FormatJSON:
		return ExportJSON(ctx, l, w)
	case FormatJSONL:
		return ExportJSONL(ctx, l, w)
	case FormatYAML:
		return ExportYAML(ctx, l, w)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// ExportJSON writes the contacts in the same layout as the address book
// file, so an export can be used directly as a data file.
func ExportJSON(ctx context.Context, l Lister, w io.Writer) error {
	contacts, err := l.List(ctx)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	data, err := model.EncodeContacts(contacts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportJSONL writes a header line followed by one contact per line, in
// insertion order.
func ExportJSONL(ctx context.Context, l Lister, w io.Writer) error {
	contacts, err := l.List(ctx)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		ContactCount: len(contacts),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, c := range contacts {
		if err := enc.Encode(record{Type: "contact", Data: c}); err != nil {
			return fmt.Errorf("encode contact %d: %w", c.ID, err)
		}
	}
	return nil
}

// ExportYAML writes the contacts as a YAML sequence.
func ExportYAML(ctx context.Context, l Lister, w io.Writer) error {
	contacts, err := l.List(ctx)
	if err != nil {
		return fmt.Errorf("list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(contacts); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
