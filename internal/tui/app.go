package tui

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	coreapi "xss/internal/api"
	"xss/internal/console"
	"xss/internal/log"
	"xss/internal/theme"
	tuiapi "xss/internal/tui/api"
	"xss/internal/tui/components"
	"xss/internal/tui/handlers"
)

// PlayFunc runs a game session against the TUI's console and panels. It
// returns when the session ends or ctx is cancelled.
type PlayFunc func(ctx context.Context, io console.IO, ui coreapi.UIAPI) error

// App represents the main tview application
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	mainGrid *tview.Grid

	// UI Components
	output *components.OutputComponent
	status *components.StatusComponent
	node   *components.NodeComponent
	input  *tview.InputField
	prompt string

	inputHandler *handlers.InputHandler
	lineIO       *LineIO
	uiAPI        *tuiapi.TuiApiImpl

	stopped atomic.Bool
}

// NewApplication creates and configures the tview application
func NewApplication() *App {
	a := &App{
		app:          tview.NewApplication(),
		output:       components.NewOutputComponent(),
		status:       components.NewStatusComponent(),
		node:         components.NewNodeComponent(),
		input:        theme.NewInputField(),
		inputHandler: handlers.NewInputHandler(nil),
	}
	a.uiAPI = tuiapi.NewTuiAPI(a)
	a.lineIO = NewLineIO(a.uiAPI.Write, a.uiAPI.Prompt)

	a.setupUI()
	a.setupInputHandling()
	return a
}

// setupUI configures the user interface layout
func (a *App) setupUI() {
	side := theme.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.status.GetView(), 0, 3, false).
		AddItem(a.node.GetView(), 0, 2, false)

	a.mainGrid = tview.NewGrid().
		SetRows(0, 1).
		SetColumns(0, 30).
		SetBorders(false)
	a.mainGrid.AddItem(a.output.GetView(), 0, 0, 1, 1, 0, 0, false)
	a.mainGrid.AddItem(side, 0, 1, 1, 1, 0, 0, false)
	a.mainGrid.AddItem(a.input, 1, 0, 1, 2, 0, 0, true)

	a.pages = tview.NewPages()
	a.pages.AddPage("main", a.mainGrid, true, true)
	a.app.SetRoot(a.pages, true).SetFocus(a.input)
}

// setupInputHandling configures input event handling
func (a *App) setupInputHandling() {
	a.inputHandler.SetCallbacks(
		a.stop,
		a.output.Scroll,
		func(line string) { a.input.SetText(line) },
	)
	a.app.SetInputCapture(a.inputHandler.HandleKeyEvent)

	a.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		line := a.input.GetText()
		a.input.SetText("")
		a.inputHandler.History().Add(line)
		a.output.Write(console.Prompt, a.prompt+line, true)
		if !a.lineIO.Submit(line) {
			a.output.Write(console.Muted, "(busy, input dropped)", true)
		}
	})
}

// Run starts the TUI and play on its own goroutine. It returns once both
// have finished; the session error wins over a UI error.
func (a *App) Run(ctx context.Context, play PlayFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	playErr := make(chan error, 1)
	go func() {
		defer a.stop()
		playErr <- play(ctx, a.lineIO, a.uiAPI)
	}()
	go func() {
		<-ctx.Done()
		a.stop()
	}()

	log.Info("tui started")
	uiErr := a.app.Run()
	a.stopped.Store(true)
	a.uiAPI.Shutdown()
	a.lineIO.Close()
	cancel()

	err := <-playErr
	log.Info("tui stopped", "error", err, "ui_error", uiErr)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return uiErr
}

// stop closes the console and asks tview to exit. Stop is queued because
// tview ignores it until the event loop has started.
func (a *App) stop() {
	if a.stopped.CompareAndSwap(false, true) {
		a.lineIO.Close()
		go a.app.QueueUpdate(a.app.Stop)
	}
}

// queue runs fn on the UI goroutine and waits for the redraw.
func (a *App) queue(fn func()) {
	if a.stopped.Load() {
		return
	}
	a.app.QueueUpdateDraw(fn)
}

// HandleStatusChanged implements the status side of the notification layer.
func (a *App) HandleStatusChanged(status coreapi.StatusInfo) {
	a.queue(func() { a.status.Update(status) })
}

// HandleNodeChanged implements the node side of the notification layer.
func (a *App) HandleNodeChanged(node coreapi.NodeInfo) {
	a.queue(func() { a.node.Update(node) })
}

func (a *App) HandleOutput(style console.Style, text string, newline bool) {
	a.queue(func() { a.output.Write(style, text, newline) })
}

func (a *App) HandlePrompt(prompt string) {
	a.queue(func() {
		a.prompt = prompt
		a.input.SetLabel(tview.Escape(prompt))
	})
}
