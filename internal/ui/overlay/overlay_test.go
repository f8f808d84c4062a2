package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func grid(w, h int, c string) string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(c, w)
	}
	return strings.Join(rows, "\n")
}

func TestPlace_Center(t *testing.T) {
	got := Place(Config{Width: 6, Height: 4}, "XX\nXX", grid(6, 4, "."))
	require.Equal(t, "......\n..XX..\n..XX..\n......", got)
}

func TestPlace_Top(t *testing.T) {
	got := Place(Config{Width: 5, Height: 3, Position: Top, PadY: 1}, "X", grid(5, 3, "."))
	require.Equal(t, ".....\n..X..\n.....", got)
}

func TestPlace_PadsShortBackground(t *testing.T) {
	got := Place(Config{Width: 4, Height: 3}, "XX", "..")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " XX ", lines[1])
}

func TestPlace_ClipsWideForeground(t *testing.T) {
	got := Place(Config{Width: 3, Height: 1}, "XXXXX", "...")
	require.Equal(t, "XXX", got)
}

func TestPlace_KeepsBackgroundStyling(t *testing.T) {
	bg := "\x1b[31mRRRRRR\x1b[0m"
	got := Place(Config{Width: 6, Height: 1}, "XX", bg)
	require.Equal(t, "RRXXRR", ansi.Strip(got))
	require.Contains(t, got, "\x1b[31m")
}

func TestPlace_ForegroundTallerThanViewport(t *testing.T) {
	got := Place(Config{Width: 2, Height: 2}, "A\nB\nC\nD", grid(2, 2, "."))
	require.Equal(t, 2, len(strings.Split(got, "\n")))
}
