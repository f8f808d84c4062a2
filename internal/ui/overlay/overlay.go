// Package overlay draws one rendered block on top of another.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is where the foreground goes within the viewport.
type Position int

const (
	// Center places the block in the middle of the viewport.
	Center Position = iota
	// Top places the block horizontally centered at the top edge, PadY rows down.
	Top
)

// Config describes the viewport.
type Config struct {
	Width    int
	Height   int
	Position Position
	PadY     int
}

// Place draws fg over bg. Background lines around the block keep their
// styling; foreground lines are clipped to the viewport width.
func Place(cfg Config, fg, bg string) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}
	fgLines := strings.Split(fg, "\n")

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		if cfg.Width > 0 {
			line = ansi.Truncate(line, max(cfg.Width-x, 0), "")
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of base starting at column x with line.
func splice(base, line string, x int) string {
	left := ansi.Truncate(base, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(line)
	var right string
	if end < ansi.StringWidth(base) {
		right = ansi.TruncateLeft(base, end, "")
	}
	return left + line + right
}

func origin(cfg Config, w, h int) (x, y int) {
	x = max((cfg.Width-w)/2, 0)
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	default:
		y = (cfg.Height - h) / 2
	}
	return x, max(y, 0)
}
