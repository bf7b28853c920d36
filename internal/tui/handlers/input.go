package handlers

import (
	"github.com/gdamore/tcell/v2"
	"xss/internal/log"
)

// pageSize is how far PgUp/PgDn scroll the output pane.
const pageSize = 10

// InputHandler manages global key handling for the application
type InputHandler struct {
	history *History

	// Callbacks
	onExit   func()
	onScroll func(delta int)
	onRecall func(line string)
}

// NewInputHandler creates a new input handler
func NewInputHandler(history *History) *InputHandler {
	if history == nil {
		history = NewHistory(100)
	}
	return &InputHandler{history: history}
}

// SetCallbacks sets the callback functions
func (ih *InputHandler) SetCallbacks(
	onExit func(),
	onScroll func(delta int),
	onRecall func(line string),
) {
	ih.onExit = onExit
	ih.onScroll = onScroll
	ih.onRecall = onRecall
}

// History returns the command history the handler browses
func (ih *InputHandler) History() *History {
	return ih.history
}

// HandleKeyEvent handles key events before they reach the focused widget
func (ih *InputHandler) HandleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC:
		log.Debug("exit requested from keyboard")
		call(ih.onExit)
		return nil
	case tcell.KeyPgUp:
		ih.scroll(-pageSize)
		return nil
	case tcell.KeyPgDn:
		ih.scroll(pageSize)
		return nil
	case tcell.KeyUp:
		if line, ok := ih.history.Prev(); ok {
			ih.recall(line)
		}
		return nil
	case tcell.KeyDown:
		ih.recall(ih.history.Next())
		return nil
	case tcell.KeyEscape:
		ih.history.Reset()
		ih.recall("")
		return nil
	}
	return event
}

func (ih *InputHandler) scroll(delta int) {
	if ih.onScroll != nil {
		ih.onScroll(delta)
	}
}

func (ih *InputHandler) recall(line string) {
	if ih.onRecall != nil {
		ih.onRecall(line)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
