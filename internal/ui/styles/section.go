package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderFormSection renders content inside a rounded border with the title
// inline in the top edge: ╭─ Title (hint) ───╮. Lines wider than the box are
// truncated. The border takes focusedBorderColor when focused.
func RenderFormSection(content []string, title, hint string, width int, focused bool, focusedBorderColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = focusedBorderColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)

	innerWidth := max(width-2, 1)

	var topBorder string
	if title == "" {
		topBorder = borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	} else {
		label := title
		if hint != "" {
			label = title + " (" + hint + ")"
		}
		// "─ " before and " " after the label
		if lipgloss.Width(label) > innerWidth-3 {
			label = ansi.Truncate(label, max(innerWidth-3, 0), "…")
			hint = ""
		}
		dashesAfter := max(innerWidth-lipgloss.Width(label)-3, 0)

		topBorder = borderStyle.Render(borderTopLeft + borderHorizontal + " ")
		if hint != "" {
			topBorder += titleStyle.Render(title) + " " + HintStyle.Render("("+hint+")")
		} else {
			topBorder += titleStyle.Render(label)
		}
		topBorder += borderStyle.Render(" " + strings.Repeat(borderHorizontal, dashesAfter) + borderTopRight)
	}

	lines := make([]string, 0, len(content))
	for _, row := range content {
		if lipgloss.Width(row) > innerWidth {
			row = ansi.Truncate(row, innerWidth, "…")
		}
		padding := strings.Repeat(" ", max(innerWidth-lipgloss.Width(row), 0))
		lines = append(lines, borderStyle.Render(borderVertical)+row+padding+borderStyle.Render(borderVertical))
	}

	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}
