package theme

import (
	"github.com/gdamore/tcell/v2"
	"xss/internal/console"
)

var (
	phosphorBlack  = tcell.NewHexColor(0x000000)
	phosphorGreen  = tcell.NewHexColor(0x33FF66)
	phosphorDim    = tcell.NewHexColor(0x1F8F3A)
	phosphorFaint  = tcell.NewHexColor(0x3A5F44)
	phosphorAmber  = tcell.NewHexColor(0xFFB000)
	phosphorRed    = tcell.NewHexColor(0xFF3344)
	phosphorCyan   = tcell.NewHexColor(0x33E0FF)
	phosphorViolet = tcell.NewHexColor(0xD070FF)
	phosphorWhite  = tcell.NewHexColor(0xE8FFE8)
)

// PhosphorTheme is green text on black, the default.
type PhosphorTheme struct{}

func NewPhosphorTheme() *PhosphorTheme {
	return &PhosphorTheme{}
}

func (t *PhosphorTheme) Name() string {
	return "phosphor"
}

func (t *PhosphorTheme) TerminalColors() TerminalColors {
	return TerminalColors{
		Background: phosphorBlack,
		Foreground: phosphorGreen,
		Border:     phosphorDim,
	}
}

func (t *PhosphorTheme) StatusColors() StatusColors {
	return StatusColors{
		Label:   phosphorDim,
		Value:   phosphorWhite,
		Good:    phosphorGreen,
		Caution: phosphorAmber,
		Bad:     phosphorRed,
	}
}

func (t *PhosphorTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: phosphorBlack,
		Foreground: phosphorGreen,
		Border:     phosphorDim,
		Title:      phosphorGreen,
	}
}

func (t *PhosphorTheme) InputColors() InputColors {
	return InputColors{
		Background: phosphorBlack,
		Label:      phosphorGreen,
		FieldBg:    phosphorBlack,
		FieldFg:    phosphorWhite,
	}
}

func (t *PhosphorTheme) StyleColor(style console.Style) tcell.Color {
	switch style {
	case console.Info:
		return phosphorCyan
	case console.Success:
		return phosphorGreen
	case console.Warning:
		return phosphorAmber
	case console.Danger:
		return phosphorRed
	case console.Highlight:
		return phosphorViolet
	case console.Muted:
		return phosphorFaint
	case console.Prompt:
		return phosphorGreen
	default:
		return phosphorWhite
	}
}
