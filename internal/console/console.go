// Package console is the rendering and input capability the game core is
// handed. The core never sees ANSI codes or widgets, only styles and lines.
package console

import (
	"errors"
	"strconv"
	"strings"

	"xss/internal/errs"
)

// Style is a semantic colour role.
type Style int

const (
	Normal Style = iota
	Info
	Success
	Warning
	Danger
	Highlight
	Muted
	Prompt
)

// IO is implemented by the plain console, the TUI and the test script.
type IO interface {
	Print(style Style, text string)
	Println(style Style, text string)
	// ReadLine blocks until a line is available. io.EOF means the player left.
	ReadLine(prompt string) (string, error)
}

// maxAttempts bounds ValidationError re-prompts.
const maxAttempts = 3

// ErrTooManyAttempts is returned once ReadChoice gives up.
var ErrTooManyAttempts = errors.New("too many invalid answers")

// ReadChoice asks for an integer in [min, max], re-prompting on invalid input.
func ReadChoice(io IO, prompt string, min, max int) (int, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := io.ReadLine(prompt)
		if err != nil {
			return 0, err
		}
		n, verr := ParseChoice(line, min, max)
		if verr == nil {
			return n, nil
		}
		io.Println(Warning, verr.Error())
	}
	return 0, ErrTooManyAttempts
}

// ParseChoice validates a single integer answer.
func ParseChoice(line string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errs.Validation("%q is not a number", strings.TrimSpace(line))
	}
	if n < min || n > max {
		return 0, errs.Validation("choose a number between %d and %d", min, max)
	}
	return n, nil
}

// ReadChoices asks for exactly count distinct integers in [min, max].
func ReadChoices(io IO, prompt string, count, min, max int) ([]int, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		line, err := io.ReadLine(prompt)
		if err != nil {
			return nil, err
		}
		picks, verr := parseChoices(line, count, min, max)
		if verr == nil {
			return picks, nil
		}
		io.Println(Warning, verr.Error())
	}
	return nil, ErrTooManyAttempts
}

func parseChoices(line string, count, min, max int) ([]int, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != count {
		return nil, errs.Validation("pick exactly %d entries", count)
	}
	seen := make(map[int]bool, count)
	picks := make([]int, 0, count)
	for _, f := range fields {
		n, err := ParseChoice(f, min, max)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			return nil, errs.Validation("entry %d picked twice", n)
		}
		seen[n] = true
		picks = append(picks, n)
	}
	return picks, nil
}

// Confirm asks a yes/no question. Anything but y/yes is no.
func Confirm(io IO, prompt string) (bool, error) {
	line, err := io.ReadLine(prompt + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
