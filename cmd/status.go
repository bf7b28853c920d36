package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"xss/internal/player"
)

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the saved game",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, path, err := o.store().Load()
			if err != nil {
				return err
			}
			p := snap.PlayerStats
			title := cases.Title(language.English)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Handle:\t%s\n", p.Name)
			fmt.Fprintf(w, "Saved:\t%s (%s)\n", humanize.Time(snap.SaveTimestamp), snap.SaveTimestamp.Local().Format("2006-01-02 15:04"))
			if info, err := os.Stat(path); err == nil {
				fmt.Fprintf(w, "File:\t%s, %s\n", path, humanize.Bytes(uint64(info.Size())))
			}
			if snap.NetworkState == nil {
				fmt.Fprintf(w, "Network:\tnot saved (simple save)\n")
			}
			fmt.Fprintf(w, "Turn:\t%s\n", humanize.Comma(int64(p.Turn)))
			fmt.Fprintf(w, "Node:\t%s\n", p.CurrentNode)

			currencies := make([]string, 0, len(p.Currencies))
			for c := range p.Currencies {
				currencies = append(currencies, c)
			}
			sort.Strings(currencies)
			for _, c := range currencies {
				fmt.Fprintf(w, "%s:\t%s\n", c, humanize.FormatFloat("#,###.##", p.Currencies[c]))
			}
			fmt.Fprintf(w, "Reputation:\t%d\n", p.Reputation)
			fmt.Fprintf(w, "Heat:\t%d/%d\n", p.HeatLevel, player.MaxHeat)
			if p.Faction != "" {
				fmt.Fprintf(w, "Faction:\t%s\n", title.String(p.Faction))
			}

			skills := make([]string, 0, len(p.Skills))
			for k, v := range p.Skills {
				skills = append(skills, fmt.Sprintf("%s %d", strings.ReplaceAll(k, "_", " "), v))
			}
			sort.Strings(skills)
			fmt.Fprintf(w, "Skills:\t%s\n", strings.Join(skills, ", "))

			if p.ActiveMission != "" {
				fmt.Fprintf(w, "Mission:\t%s (progress %d)\n", p.ActiveMission, p.MissionProgress)
			}
			fmt.Fprintf(w, "Completed:\t%d missions\n", p.CompletedMissions.Len())
			fmt.Fprintf(w, "Achievements:\t%d\n", p.Achievements.Len())
			return w.Flush()
		},
	}
}
