package console

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var plainStyles = map[Style]lipgloss.Style{
	Normal:    lipgloss.NewStyle(),
	Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	Danger:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

// Plain is a line console over a reader/writer pair, used when stdout is
// not a TTY or the player asked for --ui plain.
type Plain struct {
	in    *bufio.Scanner
	out   io.Writer
	color bool
}

func NewPlain(in io.Reader, out io.Writer, color bool) *Plain {
	return &Plain{in: bufio.NewScanner(in), out: out, color: color}
}

func (p *Plain) render(style Style, text string) string {
	if !p.color {
		return text
	}
	return plainStyles[style].Render(text)
}

func (p *Plain) Print(style Style, text string) {
	fmt.Fprint(p.out, p.render(style, text))
}

func (p *Plain) Println(style Style, text string) {
	fmt.Fprintln(p.out, p.render(style, text))
}

func (p *Plain) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		p.Print(Prompt, prompt)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}
