package theme

import (
	"github.com/rivo/tview"
)

// ThemedComponents provides factory functions for creating themed components
type ThemedComponents struct {
	theme Theme
}

func NewThemedComponents(theme Theme) *ThemedComponents {
	return &ThemedComponents{theme: theme}
}

// NewOutputView creates the scrolling game output pane
func (tc *ThemedComponents) NewOutputView() *tview.TextView {
	colors := tc.theme.TerminalColors()
	view := tview.NewTextView()
	view.SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true).
		SetWordWrap(true)
	view.SetBackgroundColor(colors.Background)
	view.SetTextColor(colors.Foreground)
	view.SetBorderColor(colors.Border)
	view.SetBorder(true)
	return view
}

// NewPanelView creates a new text view styled for side panels
func (tc *ThemedComponents) NewPanelView() *tview.TextView {
	colors := tc.theme.PanelColors()
	view := tview.NewTextView()
	view.SetDynamicColors(true)
	view.SetBackgroundColor(colors.Background)
	view.SetTextColor(colors.Foreground)
	view.SetBorderColor(colors.Border)
	view.SetTitleColor(colors.Title)
	view.SetBorder(true)
	return view
}

// NewInputField creates the command line
func (tc *ThemedComponents) NewInputField() *tview.InputField {
	colors := tc.theme.InputColors()
	input := tview.NewInputField()
	input.SetBackgroundColor(colors.Background)
	input.SetFieldBackgroundColor(colors.FieldBg)
	input.SetFieldTextColor(colors.FieldFg)
	input.SetLabelColor(colors.Label)
	return input
}

// NewFlex creates a new flex with the terminal background
func (tc *ThemedComponents) NewFlex() *tview.Flex {
	flex := tview.NewFlex()
	flex.SetBackgroundColor(tc.theme.TerminalColors().Background)
	return flex
}

func factory() *ThemedComponents {
	return NewThemedComponents(defaultThemeManager.Current())
}

func NewOutputView() *tview.TextView { return factory().NewOutputView() }
func NewPanelView() *tview.TextView  { return factory().NewPanelView() }
func NewInputField() *tview.InputField {
	return factory().NewInputField()
}
func NewFlex() *tview.Flex { return factory().NewFlex() }
