package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write all contacts as JSON, JSONL or YAML",
	GroupID: "data",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := sync.ParseFormat(formatName)
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			return sync.Export(cmd.Context(), contactBook, format, cmd.OutOrStdout())
		}

		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := sync.Export(cmd.Context(), contactBook, format, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json, jsonl, yaml)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}
