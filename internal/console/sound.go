package console

import (
	"io"
	"sync"
)

// Sound effect names.
const (
	SoundSuccess = "success"
	SoundFailure = "failure"
	SoundAlert   = "alert"
	SoundLevelUp = "levelup"
)

// Sounder plays fire-and-forget effects. Implementations must never block
// or fail the caller.
type Sounder interface {
	Play(effect string)
}

// Silent drops every effect.
type Silent struct{}

func (Silent) Play(string) {}

// Bell rings the terminal bell for alerting effects.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

func NewBell(out io.Writer) *Bell {
	return &Bell{out: out}
}

func (b *Bell) Play(effect string) {
	switch effect {
	case SoundFailure, SoundAlert, SoundLevelUp:
	default:
		return
	}
	go func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		_, _ = b.out.Write([]byte{'\a'})
	}()
}
