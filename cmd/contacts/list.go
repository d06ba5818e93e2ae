package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List contacts sorted by name",
	GroupID: "contacts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contacts, err := contactBook.Directory(cmd.Context(), "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printContactListJSON(out, contacts)
		}
		printContactListTable(out, contacts, hintNoContacts)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"find"},
	Short:   "Find contacts whose name or phone contains the query",
	GroupID: "contacts",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		contacts, err := contactBook.Directory(cmd.Context(), query)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printContactListJSON(out, contacts)
		}
		hint := hintNoResults
		if strings.TrimSpace(query) == "" {
			hint = hintNoContacts
		}
		printContactListTable(out, contacts, hint)
		return nil
	},
}
