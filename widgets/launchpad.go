package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad or grid cell
func RenderPad(glyph rune, color lipgloss.TerminalColor) string {
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render(string(glyph))
}

// RenderButton draws a fixed-width button with the label centred
func RenderButton(label string, width int, style lipgloss.Style) string {
	return style.Width(width).Align(lipgloss.Center).Render(label)
}

// RenderBar draws a horizontal bar: filled cells first, the rest empty
func RenderBar(filled, width int, full, empty rune, fullStyle, emptyStyle lipgloss.Style) string {
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return fullStyle.Render(strings.Repeat(string(full), filled)) +
		emptyStyle.Render(strings.Repeat(string(empty), width-filled))
}

// PadLine right-pads s with spaces to width visible columns
func PadLine(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
