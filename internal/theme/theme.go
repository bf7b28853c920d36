package theme

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"xss/internal/console"
)

// TerminalColors defines color scheme for the scrolling output pane
type TerminalColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
}

// StatusColors defines color scheme for the status panel
type StatusColors struct {
	Label   tcell.Color
	Value   tcell.Color
	Good    tcell.Color
	Caution tcell.Color
	Bad     tcell.Color
}

// PanelColors defines color scheme for side panels
type PanelColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
}

// InputColors defines color scheme for the command line
type InputColors struct {
	Background tcell.Color
	Label      tcell.Color
	FieldBg    tcell.Color
	FieldFg    tcell.Color
}

// Theme interface defines all theming properties
type Theme interface {
	Name() string

	TerminalColors() TerminalColors
	StatusColors() StatusColors
	PanelColors() PanelColors
	InputColors() InputColors

	// StyleColor maps a console style to a foreground color.
	StyleColor(style console.Style) tcell.Color
}

// ThemeManager manages theme selection
type ThemeManager struct {
	currentTheme Theme
	themes       map[string]Theme
}

// NewThemeManager creates a manager with the built-in themes registered
func NewThemeManager() *ThemeManager {
	tm := &ThemeManager{
		themes: make(map[string]Theme),
	}
	tm.RegisterTheme(NewPhosphorTheme())
	tm.RegisterTheme(NewTelixTheme())
	tm.currentTheme = tm.themes["phosphor"]
	return tm
}

// RegisterTheme registers a new theme
func (tm *ThemeManager) RegisterTheme(theme Theme) {
	tm.themes[theme.Name()] = theme
}

// SetTheme sets the current theme by name
func (tm *ThemeManager) SetTheme(name string) error {
	if theme, exists := tm.themes[name]; exists {
		tm.currentTheme = theme
		return nil
	}
	return fmt.Errorf("theme '%s' not found", name)
}

func (tm *ThemeManager) Current() Theme {
	return tm.currentTheme
}

// Available returns the registered theme names, sorted
func (tm *ThemeManager) Available() []string {
	names := make([]string, 0, len(tm.themes))
	for name := range tm.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultThemeManager = NewThemeManager()

// GetThemeManager returns the global theme manager
func GetThemeManager() *ThemeManager {
	return defaultThemeManager
}

// Current returns the current theme from the global manager
func Current() Theme {
	return defaultThemeManager.Current()
}

// Tag returns the tview color tag for style under the current theme.
func Tag(style console.Style) string {
	return ColorTag(Current().StyleColor(style))
}

// ColorTag renders c as a tview "[#rrggbb]" tag.
func ColorTag(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "[-]"
	}
	return fmt.Sprintf("[#%06x]", c.Hex())
}
