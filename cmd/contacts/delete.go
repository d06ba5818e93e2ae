package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/store"
	"github.com/alfredjeanlab/contacts/internal/ui"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete one or more contacts",
	GroupID: "contacts",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		ask := !yes && ui.IsTerminal(os.Stdin)
		out := cmd.OutOrStdout()

		for _, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}

			c, err := contactBook.Get(cmd.Context(), id)
			if store.IsNotFound(err) {
				fmt.Fprintf(out, "No contact with ID %d\n", id)
				continue
			}
			if err != nil {
				return err
			}
			if ask && !ui.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %s (%d)?", c.Name, id)) {
				fmt.Fprintln(out, "Skipped")
				continue
			}

			if _, err := contactBook.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting %d: %w", id, err)
			}
			fmt.Fprintf(out, "Deleted %d\n", id)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
