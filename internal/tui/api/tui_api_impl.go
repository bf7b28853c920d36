package api

import (
	"sync"

	coreapi "xss/internal/api"
	"xss/internal/console"
)

// App is the part of the TUI the notification layer drives. Handlers run on
// the delivery goroutine and may block until the screen has caught up.
type App interface {
	HandleStatusChanged(status coreapi.StatusInfo)
	HandleNodeChanged(node coreapi.NodeInfo)
	HandleOutput(style console.Style, text string, newline bool)
	HandlePrompt(prompt string)
}

// TuiApiImpl implements UIAPI as a thin orchestration layer. Panel updates
// and console output share one queue so they reach the screen in the order
// the session produced them, and the session never calls into tview itself.
type TuiApiImpl struct {
	app        App
	updates    chan func()
	shutdownCh chan struct{}
	once       sync.Once
}

// NewTuiAPI creates a new TuiAPI implementation
func NewTuiAPI(app App) *TuiApiImpl {
	impl := &TuiApiImpl{
		app:        app,
		updates:    make(chan func(), 1024),
		shutdownCh: make(chan struct{}),
	}
	go impl.processLoop()
	return impl
}

func (tui *TuiApiImpl) OnStatusChanged(status coreapi.StatusInfo) {
	tui.enqueue(func() { tui.app.HandleStatusChanged(status) })
}

func (tui *TuiApiImpl) OnNodeChanged(node coreapi.NodeInfo) {
	tui.enqueue(func() { tui.app.HandleNodeChanged(node) })
}

// Write queues console output.
func (tui *TuiApiImpl) Write(style console.Style, text string, newline bool) {
	tui.enqueue(func() { tui.app.HandleOutput(style, text, newline) })
}

// Prompt queues a prompt change.
func (tui *TuiApiImpl) Prompt(prompt string) {
	tui.enqueue(func() { tui.app.HandlePrompt(prompt) })
}

// enqueue blocks while the queue is full and gives up once shut down.
func (tui *TuiApiImpl) enqueue(fn func()) {
	select {
	case <-tui.shutdownCh:
		return
	default:
	}
	select {
	case tui.updates <- fn:
	case <-tui.shutdownCh:
	}
}

func (tui *TuiApiImpl) processLoop() {
	for {
		select {
		case <-tui.shutdownCh:
			return
		case fn := <-tui.updates:
			select {
			case <-tui.shutdownCh:
				return
			default:
				fn()
			}
		}
	}
}

// Shutdown stops delivery. Queued updates are discarded.
func (tui *TuiApiImpl) Shutdown() {
	tui.once.Do(func() { close(tui.shutdownCh) })
}
