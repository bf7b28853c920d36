package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"xss/internal/mission"
	"xss/internal/output"
)

// missionRow is the table view of a catalog entry.
type missionRow struct {
	ID       string `table:"ID"`
	Name     string `table:"NAME"`
	Type     string `table:"TYPE"`
	Risk     int    `table:"RISK"`
	Duration int    `table:"TURNS"`
	Reward   string `table:"REWARD BTC"`
	ReqRep   int    `table:"REP"`
}

func newMissionsCmd(o *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "List the mission catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.NewFormatter(format)
			if err != nil {
				return err
			}
			catalog, err := mission.Default()
			if err != nil {
				return fmt.Errorf("failed to load missions: %w", err)
			}

			var data any = catalog.All()
			if _, ok := formatter.(*output.TableFormatter); ok {
				rows := make([]missionRow, 0, catalog.Len())
				for _, m := range catalog.All() {
					kind := string(m.Type)
					if kind == "" {
						kind = "-"
					}
					rows = append(rows, missionRow{
						ID:       m.ID,
						Name:     m.Name,
						Type:     kind,
						Risk:     m.Risk,
						Duration: m.Duration,
						Reward:   humanize.FormatFloat("#,###.##", m.RewardBTC),
						ReqRep:   m.ReqRep,
					})
				}
				data = rows
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.Format(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json, yaml")
	return cmd
}
