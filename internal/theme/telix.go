package theme

import (
	"github.com/gdamore/tcell/v2"
	"xss/internal/console"
)

// Standard ANSI 16-color palette using correct hex values
var (
	DOSBlack        = tcell.NewHexColor(0x000000)
	DOSRed          = tcell.NewHexColor(0x800000)
	DOSGreen        = tcell.NewHexColor(0x008000)
	DOSBrown        = tcell.NewHexColor(0x808000)
	DOSBlue         = tcell.NewHexColor(0x000080)
	DOSMagenta      = tcell.NewHexColor(0x800080)
	DOSCyan         = tcell.NewHexColor(0x008080)
	DOSLightGray    = tcell.NewHexColor(0xC0C0C0)
	DOSDarkGray     = tcell.NewHexColor(0x808080)
	DOSLightRed     = tcell.NewHexColor(0xFF0000)
	DOSLightGreen   = tcell.NewHexColor(0x00FF00)
	DOSYellow       = tcell.NewHexColor(0xFFFF00)
	DOSLightBlue    = tcell.NewHexColor(0x0000FF)
	DOSLightMagenta = tcell.NewHexColor(0xFF00FF)
	DOSLightCyan    = tcell.NewHexColor(0x00FFFF)
	DOSWhite        = tcell.NewHexColor(0xFFFFFF)
)

// TelixTheme implements the classic Telix DOS terminal theme
type TelixTheme struct{}

// NewTelixTheme creates a new Telix theme instance
func NewTelixTheme() *TelixTheme {
	return &TelixTheme{}
}

func (t *TelixTheme) Name() string {
	return "telix"
}

func (t *TelixTheme) TerminalColors() TerminalColors {
	return TerminalColors{
		Background: DOSBlack,
		Foreground: DOSLightGray,
		Border:     DOSLightGray,
	}
}

func (t *TelixTheme) StatusColors() StatusColors {
	return StatusColors{
		Label:   DOSLightGray,
		Value:   DOSWhite,
		Good:    DOSLightGreen,
		Caution: DOSYellow,
		Bad:     DOSLightRed,
	}
}

func (t *TelixTheme) PanelColors() PanelColors {
	return PanelColors{
		Background: DOSBlue,
		Foreground: DOSLightGray,
		Border:     DOSWhite,
		Title:      DOSWhite,
	}
}

func (t *TelixTheme) InputColors() InputColors {
	return InputColors{
		Background: DOSBlack,
		Label:      DOSLightCyan,
		FieldBg:    tcell.NewHexColor(0x000040),
		FieldFg:    DOSWhite,
	}
}

func (t *TelixTheme) StyleColor(style console.Style) tcell.Color {
	switch style {
	case console.Info:
		return DOSLightCyan
	case console.Success:
		return DOSLightGreen
	case console.Warning:
		return DOSYellow
	case console.Danger:
		return DOSLightRed
	case console.Highlight:
		return DOSLightMagenta
	case console.Muted:
		return DOSDarkGray
	case console.Prompt:
		return DOSLightCyan
	default:
		return DOSLightGray
	}
}
