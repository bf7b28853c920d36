package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"xss/internal/console"
	"xss/internal/dice"
	"xss/internal/events"
	"xss/internal/network"
	"xss/internal/player"
)

func newNewCmd(o *options) *cobra.Command {
	var (
		name string
		yes  bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a fresh game, replacing the save",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := o.store()
			if store.Exists() && !yes {
				cio := console.NewPlain(cmd.InOrStdin(), cmd.OutOrStdout(), false)
				ok, err := console.Confirm(cio, fmt.Sprintf("Overwrite the save at %s?", store.Path()))
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			p := player.New(name)
			g := network.New(p, dice.New(o.cfg.Seed), events.NopPublisher())
			res, err := store.Save(p, g.State())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "New game for %s saved to %s\n", p.Name, res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "anon", "handle for the new game")
	cmd.Flags().BoolVar(&yes, "yes", false, "overwrite without asking")
	return cmd
}
