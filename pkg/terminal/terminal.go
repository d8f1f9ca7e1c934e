package terminal

import (
	"os"

	"github.com/moby/term"
)

const defaultWidth = 120

// GetWidthFrom returns the width of out when it is a terminal, falling back to
// os.Stdout and then to 120 columns.
func GetWidthFrom(out any) int {
	fd, isTerminal := term.GetFdInfo(out)
	if !isTerminal {
		fd, isTerminal = term.GetFdInfo(os.Stdout)
	}
	if !isTerminal {
		return defaultWidth
	}
	ws, err := term.GetWinsize(fd)
	if err != nil || ws.Width == 0 {
		return defaultWidth
	}
	return int(ws.Width)
}

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
