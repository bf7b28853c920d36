package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"xss/internal/errs"
	"xss/internal/events"
	"xss/internal/stats"
)

func newStatsCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime statistics and recent events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.cfg.StatsDB == "" {
				return errs.Precondition("statistics are disabled (stats_db is empty)")
			}
			db, err := stats.Open(o.cfg.StatsDB)
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := db.Summary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s events over %s sessions, %s player changes\n",
				humanize.Comma(int64(sum.Events)), humanize.Comma(int64(sum.Sessions)), humanize.Comma(int64(sum.Mutations)))

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			types := make([]string, 0, len(sum.ByType))
			for t := range sum.ByType {
				types = append(types, string(t))
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Fprintf(w, "  %s\t%d\n", t, sum.ByType[events.Type(t)])
			}
			currencies := make([]string, 0, len(sum.Earned))
			for c := range sum.Earned {
				currencies = append(currencies, c)
			}
			sort.Strings(currencies)
			for _, c := range currencies {
				fmt.Fprintf(w, "  earned %s\t%s\n", c, humanize.FormatFloat("#,###.##", sum.Earned[c]))
			}
			fmt.Fprintf(w, "  heat gained\t%.0f\n", sum.HeatGained)
			if err := w.Flush(); err != nil {
				return err
			}

			recent, err := db.Recent(limit)
			if err != nil {
				return err
			}
			if len(recent) > 0 {
				fmt.Fprintln(out, "\nRecent:")
			}
			for _, r := range recent {
				fmt.Fprintf(out, "  %-14s %-24s %s\n", humanize.Time(r.Time), r.Type, r.Subject)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of recent events to show")
	return cmd
}
