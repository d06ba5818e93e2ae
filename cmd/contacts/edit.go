package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"update"},
	Short:   "Change a contact's fields",
	Long: `Change a contact's fields. Only the fields given as flags change;
pass an empty value (--email "") to clear an optional field.`,
	GroupID: "contacts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("phone") && !flags.Changed("email") && !flags.Changed("address") {
			return errors.New("nothing to change: pass at least one of --name, --phone, --email, --address")
		}

		current, err := contactBook.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		in := current.Input()
		if flags.Changed("name") {
			in.Name, _ = flags.GetString("name")
		}
		if flags.Changed("phone") {
			in.Phone, _ = flags.GetString("phone")
		}
		if flags.Changed("email") {
			in.Email, _ = flags.GetString("email")
		}
		if flags.Changed("address") {
			in.Address, _ = flags.GetString("address")
		}

		c, err := contactBook.Update(cmd.Context(), id, in)
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
	editCmd.Flags().StringP("name", "n", "", "new name")
	editCmd.Flags().StringP("phone", "p", "", "new phone number")
	editCmd.Flags().StringP("email", "e", "", "new email address")
	editCmd.Flags().StringP("address", "a", "", "new postal address")
}
