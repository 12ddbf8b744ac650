package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	stdout = termenv.NewOutput(os.Stdout)
	stderr = termenv.NewOutput(os.Stderr)

	ERROR = func(s string) string {
		return stderr.String(s).
			Foreground(stderr.Color("9")).
			String()
	}
	PROMPT = func(s string) string {
		return stdout.String(s).
			Foreground(stdout.Color("12")).
			Bold().
			String()
	}
	LOG = func(s string) string {
		return stderr.String(s).
			Foreground(stderr.Color("8")).
			String()
	}
)

// DimStyle is used for secondary information like keys and timestamps
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// groupColors maps tab group colors to terminal colors
var groupColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("12"),
	"purple": lipgloss.Color("13"),
	"cyan":   lipgloss.Color("14"),
	"orange": lipgloss.Color("208"),
	"yellow": lipgloss.Color("11"),
	"pink":   lipgloss.Color("218"),
	"green":  lipgloss.Color("10"),
	"gray":   lipgloss.Color("8"),
	"red":    lipgloss.Color("9"),
}

// GroupSwatch renders a colored marker for a tab group color.
func GroupSwatch(color string) string {
	c, ok := groupColors[color]
	if !ok {
		return "○"
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

// GroupLabel renders a label in its group's color.
func GroupLabel(label, color string) string {
	c, ok := groupColors[color]
	if !ok {
		return label
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(label)
}

// DisableColor turns off colored output, e.g. when output is not a terminal.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
	stdout = termenv.NewOutput(os.Stdout, termenv.WithProfile(termenv.Ascii))
	stderr = termenv.NewOutput(os.Stderr, termenv.WithProfile(termenv.Ascii))
}
