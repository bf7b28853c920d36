package tui

import (
	"io"
	"sync"

	"xss/internal/console"
)

// LineIO is the console the game session sees while the TUI runs. Writes
// and prompts are forwarded to the screen; ReadLine blocks until the player
// submits a line or the UI closes.
type LineIO struct {
	lines  chan string
	done   chan struct{}
	once   sync.Once
	write  func(style console.Style, text string, newline bool)
	prompt func(prompt string)
}

// NewLineIO wires the screen callbacks. Either may be nil.
func NewLineIO(write func(console.Style, string, bool), prompt func(string)) *LineIO {
	return &LineIO{
		lines:  make(chan string, 16),
		done:   make(chan struct{}),
		write:  write,
		prompt: prompt,
	}
}

func (l *LineIO) Print(style console.Style, text string) {
	if l.write != nil && !l.Closed() {
		l.write(style, text, false)
	}
}

func (l *LineIO) Println(style console.Style, text string) {
	if l.write != nil && !l.Closed() {
		l.write(style, text, true)
	}
}

func (l *LineIO) ReadLine(prompt string) (string, error) {
	if l.prompt != nil && !l.Closed() {
		l.prompt(prompt)
	}
	select {
	case line := <-l.lines:
		return line, nil
	case <-l.done:
		return "", io.EOF
	}
}

// Submit hands line to the next ReadLine. It never blocks; false means the
// line was dropped because the session is closed or not keeping up.
func (l *LineIO) Submit(line string) bool {
	if l.Closed() {
		return false
	}
	select {
	case l.lines <- line:
		return true
	default:
		return false
	}
}

// Close makes pending and future ReadLine calls return io.EOF.
func (l *LineIO) Close() {
	l.once.Do(func() { close(l.done) })
}

func (l *LineIO) Closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
