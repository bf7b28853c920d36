package console

import (
	"io"
	"strings"
)

// Script is a scripted console for tests: it answers ReadLine from Lines
// and records everything printed.
type Script struct {
	Lines   []string
	Prompts []string
	out     strings.Builder
}

func NewScript(lines ...string) *Script {
	return &Script{Lines: lines}
}

func (s *Script) Print(_ Style, text string) {
	s.out.WriteString(text)
}

func (s *Script) Println(_ Style, text string) {
	s.out.WriteString(text)
	s.out.WriteByte('\n')
}

func (s *Script) ReadLine(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Lines) == 0 {
		return "", io.EOF
	}
	line := s.Lines[0]
	s.Lines = s.Lines[1:]
	return line, nil
}

// Output returns everything printed so far.
func (s *Script) Output() string {
	return s.out.String()
}
