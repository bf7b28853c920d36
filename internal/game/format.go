package game

import (
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"xss/internal/player"
)

// title turns ids like "social_eng" into "Social Eng".
func title(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// bar draws value/limit as a fixed-width gauge.
func bar(value, limit, width int) string {
	if limit <= 0 {
		return ""
	}
	filled := value * width / limit
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// balances lists BTC first, then the other currencies alphabetically.
func balances(p *player.State) string {
	currencies := make([]string, 0, len(p.Currencies))
	for c := range p.Currencies {
		if c != player.BTC {
			currencies = append(currencies, c)
		}
	}
	sort.Strings(currencies)
	parts := []string{player.BTC + " " + money(p.Balance(player.BTC))}
	for _, c := range currencies {
		parts = append(parts, c+" "+money(p.Currencies[c]))
	}
	return strings.Join(parts, "  ")
}
