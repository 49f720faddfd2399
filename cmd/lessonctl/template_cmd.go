package main

import (
	"fmt"
	"os"

	"lessonbook/internal/parser"

	"github.com/spf13/cobra"
)

func newTemplateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the CSV import template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" || out == "-" {
				_, err := cmd.OutOrStdout().Write(parser.CSVTemplate())
				return err
			}
			if err := os.WriteFile(out, parser.CSVTemplate(), 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Template written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", parser.TemplateFilename, "Output path, - for stdout")
	return cmd
}
