package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"xss/internal/save"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the xss version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "xss version %s (commit %s, built %s)\n", version, commit, date)
			fmt.Fprintf(cmd.OutOrStdout(), "save format: %s\n", save.Version)
			return nil
		},
	}
}
