package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
	"xss/internal/console"
	"xss/internal/theme"
)

// maxOutputLines bounds the scrollback kept in the output pane.
const maxOutputLines = 2000

// OutputComponent is the scrolling pane game text is printed to.
type OutputComponent struct {
	view   *tview.TextView
	follow bool
}

func NewOutputComponent() *OutputComponent {
	view := theme.NewOutputView()
	view.SetMaxLines(maxOutputLines)
	view.SetTitle(" xss ")
	return &OutputComponent{view: view, follow: true}
}

// Write appends text in style. Must run on the UI goroutine.
func (oc *OutputComponent) Write(style console.Style, text string, newline bool) {
	fmt.Fprint(oc.view, Styled(style, text))
	if newline {
		fmt.Fprint(oc.view, "\n")
	}
	if oc.follow {
		oc.view.ScrollToEnd()
	}
}

// Scroll moves the view by delta rows. Scrolling back down past the end
// resumes following new output.
func (oc *OutputComponent) Scroll(delta int) {
	row, _ := oc.view.GetScrollOffset()
	row = max(row+delta, 0)
	oc.view.ScrollTo(row, 0)
	_, _, _, height := oc.view.GetInnerRect()
	oc.follow = delta > 0 && row+height >= oc.view.GetOriginalLineCount()
	if oc.follow {
		oc.view.ScrollToEnd()
	}
}

func (oc *OutputComponent) GetView() *tview.TextView {
	return oc.view
}

// Styled wraps text in the color tag for style, escaping any brackets the
// game printed so tview does not read them as tags.
func Styled(style console.Style, text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	tag := theme.Tag(style)
	for i, l := range lines {
		if l != "" {
			lines[i] = tag + tview.Escape(l) + "[-]"
		}
	}
	return strings.Join(lines, "\n")
}
