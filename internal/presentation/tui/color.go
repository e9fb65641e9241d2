// Package tui colors CLI output when it goes to a terminal.
package tui

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	ColorOK     = "#34d399"
	ColorFail   = "#f87171"
	ColorWarn   = "#fbbf24"
	ColorAction = "#818cf8"
	ColorMuted  = "#9ca3af"
)

// Enabled is decided once: stdout must be a terminal and NO_COLOR unset.
var Enabled = term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("NO_COLOR") == ""

// Paint returns s in the given hex color, or s unchanged when color is disabled.
func Paint(s, hex string) string {
	if !Enabled {
		return s
	}
	p := termenv.ColorProfile()
	return termenv.String(s).Foreground(p.Color(hex)).String()
}

// ColorizeTranscript highlights the lines of a rehearsal transcript by what they report.
func ColorizeTranscript(text string) string {
	if !Enabled {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = termenv.String(line).Bold().String()
			continue
		}
		if hex := LineColor(line); hex != "" {
			lines[i] = Paint(line, hex)
		}
	}
	return strings.Join(lines, "\n")
}

// LineColor picks the color of one transcript line, or "" for none.
func LineColor(line string) string {
	switch {
	case strings.Contains(line, "failed"), strings.HasPrefix(line, "status quit"):
		return ColorFail
	case strings.Contains(line, " undo "), strings.Contains(line, " unwind "), strings.Contains(line, "unanchored"):
		return ColorWarn
	case strings.Contains(line, " present "), strings.HasPrefix(line, "status completed"):
		return ColorOK
	case strings.Contains(line, "  > "):
		return ColorAction
	case strings.HasPrefix(line, "flags"):
		return ColorMuted
	}
	return ""
}
