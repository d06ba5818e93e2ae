package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/contacts/internal/model"
	"github.com/alfredjeanlab/contacts/internal/ui"
)

// Empty-state hints for contact lists.
const (
	hintNoContacts = "No contacts yet. Add one with: contacts add --name NAME --phone PHONE"
	hintNoResults  = "No results found"
)

const maxNameWidth = 30

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printContactJSON(w io.Writer, c *model.Contact) error {
	return printJSON(w, c)
}

func printContactListJSON(w io.Writer, contacts []*model.Contact) error {
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	return printJSON(w, contacts)
}

func printContactTable(w io.Writer, c *model.Contact) {
	fmt.Fprintf(w, "ID:       %s\n", ui.RenderMuted(formatID(c.ID)))
	fmt.Fprintf(w, "Name:     %s\n", ui.RenderAccent(c.Name))
	fmt.Fprintf(w, "Phone:    %s\n", c.Phone)
	if c.Email != "" {
		fmt.Fprintf(w, "Email:    %s\n", c.Email)
	}
	if c.Address != "" {
		fmt.Fprintf(w, "Address:  %s\n", c.Address)
	}
	fmt.Fprintf(w, "Created:  %s\n", c.Created)
}

// printContactListTable prints contacts in a table, or emptyHint when there are none.
func printContactListTable(w io.Writer, contacts []*model.Contact, emptyHint string) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, ui.RenderMuted(emptyHint))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tEMAIL")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatID(c.ID), truncate(c.Name, maxNameWidth), c.Phone, c.Email)
	}
	tw.Flush()

	noun := "contacts"
	if len(contacts) == 1 {
		noun = "contact"
	}
	fmt.Fprintf(w, "\n%d %s\n", len(contacts), noun)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid contact id %q", s)
	}
	return id, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
