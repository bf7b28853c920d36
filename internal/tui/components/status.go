package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"xss/internal/api"
	"xss/internal/player"
	"xss/internal/theme"
)

// StatusComponent renders the player summary.
type StatusComponent struct {
	view *tview.TextView
}

func NewStatusComponent() *StatusComponent {
	view := theme.NewPanelView()
	view.SetTitle(" Status ")
	view.SetText(FormatStatus(theme.Current(), api.StatusInfo{}))
	return &StatusComponent{view: view}
}

// Update redraws the panel. Must run on the UI goroutine.
func (sc *StatusComponent) Update(status api.StatusInfo) {
	sc.view.SetText(FormatStatus(theme.Current(), status))
}

func (sc *StatusComponent) GetView() *tview.TextView {
	return sc.view
}

var titler = cases.Title(language.English)

// FormatStatus renders status as tview markup.
func FormatStatus(th theme.Theme, s api.StatusInfo) string {
	if s.Name == "" {
		return theme.ColorTag(th.StatusColors().Label) + "Waiting..."
	}
	c := th.StatusColors()
	label := theme.ColorTag(c.Label)
	value := theme.ColorTag(c.Value)
	row := func(b *strings.Builder, name, v string) {
		fmt.Fprintf(b, "%s%-9s%s%s\n", label, name, value, tview.Escape(v))
	}

	var b strings.Builder
	row(&b, "Handle", s.Name)
	row(&b, "Turn", humanize.Comma(int64(s.Turn)))
	row(&b, "Node", s.Node)
	b.WriteString("\n")

	for _, cur := range currencyOrder(s.Balances) {
		row(&b, cur, humanize.FormatFloat("#,###.##", s.Balances[cur]))
	}
	b.WriteString("\n")

	row(&b, "Rep", fmt.Sprint(s.Reputation))
	heatColor := c.Good
	switch {
	case s.Heat >= 70:
		heatColor = c.Bad
	case s.Heat >= 40:
		heatColor = c.Caution
	}
	fmt.Fprintf(&b, "%s%-9s%s%s %d\n", label, "Heat", theme.ColorTag(heatColor), gauge(s.Heat, player.MaxHeat, 10), s.Heat)
	if s.Warnings > 0 {
		fmt.Fprintf(&b, "%s%-9s%s%d\n", label, "Warnings", theme.ColorTag(c.Caution), s.Warnings)
	}
	faction := "none"
	if s.Faction != "" {
		faction = titler.String(s.Faction)
	}
	row(&b, "Faction", faction)
	row(&b, "Stage", fmt.Sprint(s.StoryStage))

	if len(s.Skills) > 0 {
		b.WriteString("\n" + label + "Skills\n")
		names := make([]string, 0, len(s.Skills))
		for k := range s.Skills {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(&b, "%s %-12s%s%2d\n", label, tview.Escape(titler.String(strings.ReplaceAll(k, "_", " "))), value, s.Skills[k])
		}
	}

	b.WriteString("\n" + label + "Mission\n")
	if s.Mission == "" {
		b.WriteString(value + " idle\n")
	} else {
		fmt.Fprintf(&b, "%s %s\n %s %d/%d\n", value, tview.Escape(s.Mission), gauge(s.Progress, s.Duration, 10), s.Progress, s.Duration)
	}

	b.WriteString("\n" + label + "Network\n")
	fmt.Fprintf(&b, "%s %d known, %d owned\n", value, s.Discovered, s.Compromised)
	fmt.Fprintf(&b, "%s %s jobs done\n", value, humanize.Comma(int64(s.Completed)))
	return b.String()
}

// currencyOrder lists BTC first, then the rest alphabetically.
func currencyOrder(balances map[string]float64) []string {
	out := make([]string, 0, len(balances))
	for c := range balances {
		if c != player.BTC {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	if _, ok := balances[player.BTC]; ok {
		out = append([]string{player.BTC}, out...)
	}
	return out
}

// gauge draws value/limit as a fixed-width block bar.
func gauge(value, limit, width int) string {
	if limit <= 0 {
		return ""
	}
	filled := min(max(value*width/limit, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
