package tui

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xss/internal/console"
)

type screen struct {
	mu      sync.Mutex
	out     []string
	prompts []string
}

func (s *screen) write(style console.Style, text string, newline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if newline {
		text += "\n"
	}
	s.out = append(s.out, text)
}

func (s *screen) prompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
}

func TestLineIOReadsSubmittedLines(t *testing.T) {
	scr := &screen{}
	l := NewLineIO(scr.write, scr.prompt)

	require.True(t, l.Submit("scan"))
	line, err := l.ReadLine("neo@localhost> ")
	require.NoError(t, err)
	assert.Equal(t, "scan", line)
	assert.Equal(t, []string{"neo@localhost> "}, scr.prompts)

	l.Print(console.Info, "a")
	l.Println(console.Info, "b")
	assert.Equal(t, []string{"a", "b\n"}, scr.out)
}

func TestLineIOCloseUnblocksReader(t *testing.T) {
	l := NewLineIO(nil, nil)
	errCh := make(chan error, 1)
	go func() {
		_, err := l.ReadLine("> ")
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	l.Close()
	l.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(time.Second):
		t.Fatal("ReadLine did not return after Close")
	}
	assert.True(t, l.Closed())
	assert.False(t, l.Submit("late"))
}

func TestLineIOSubmitNeverBlocks(t *testing.T) {
	l := NewLineIO(nil, nil)
	accepted := 0
	for i := 0; i < 100; i++ {
		if l.Submit("x") {
			accepted++
		}
	}
	assert.Equal(t, cap(l.lines), accepted)
}

func TestLineIODropsOutputAfterClose(t *testing.T) {
	scr := &screen{}
	l := NewLineIO(scr.write, scr.prompt)
	l.Close()
	l.Println(console.Normal, "gone")
	_, err := l.ReadLine("> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Empty(t, scr.out)
	assert.Empty(t, scr.prompts)
}
