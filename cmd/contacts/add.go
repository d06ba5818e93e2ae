package main

import (
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/model"
)

var addCmd = &cobra.Command{
	Use:     "add [name] [phone]",
	Short:   "Add a contact",
	GroupID: "contacts",
	Args:    cobra.MaximumNArgs(2),
	Example: `  contacts add "Alice Smith" 555-1234
  contacts add --name "Bob" --phone 555-9999 --email bob@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")
		address, _ := cmd.Flags().GetString("address")
		if len(args) > 0 {
			name = args[0]
		}
		if len(args) > 1 {
			phone = args[1]
		}

		c, err := contactBook.Create(cmd.Context(), model.ContactInput{
			Name:    name,
			Phone:   phone,
			Email:   email,
			Address: address,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printContactJSON(out, c)
		}
		printContactTable(out, c)
		return nil
	},
}

func init() {
	addCmd.Flags().StringP("name", "n", "", "contact name (required)")
	addCmd.Flags().StringP("phone", "p", "", "phone number (required)")
	addCmd.Flags().StringP("email", "e", "", "email address")
	addCmd.Flags().StringP("address", "a", "", "postal address")
}
