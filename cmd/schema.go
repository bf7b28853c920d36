package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"xss/internal/save"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the save file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := save.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to build schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
