package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// styledLine is one row of output. The first highlightFrom runes take
// prefixStyle and the rest take style. raw rows already carry ANSI escapes
// and are written as they are.
type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool
}

func (l styledLine) fit(width int) styledLine {
	if width <= 0 {
		return l
	}
	l.text = truncateText(l.text, width)
	return l
}

func (l styledLine) render() string {
	if l.raw {
		return l.text
	}
	runes := []rune(l.text)
	if l.highlightFrom <= 0 || l.highlightFrom >= len(runes) {
		return renderStyled(l.style, l.text)
	}
	return renderStyled(l.prefixStyle, string(runes[:l.highlightFrom])) +
		renderStyled(l.style, string(runes[l.highlightFrom:]))
}

func renderStyled(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

// limitHeight keeps at most height rows, replacing the overflow with a
// single ellipsis row.
func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	out := append([]styledLine(nil), lines[:height-1]...)
	return append(out, styledLine{text: truncateText("…", width)})
}

func applyWidth(lines []styledLine, width int) []styledLine {
	out := make([]styledLine, len(lines))
	for i, line := range lines {
		out[i] = line.fit(width)
	}
	return out
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.render()
	}
	return strings.Join(out, "\n")
}

// truncateText cuts text to width terminal cells, ending in an ellipsis.
// Wide runes count as two cells and ANSI escapes as none.
func truncateText(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	if width == 1 {
		return truncate.String(text, 1)
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

// padCell truncates or right-pads text to exactly width cells.
func padCell(text string, width int) string {
	text = truncateText(text, width)
	if w := lipgloss.Width(text); w < width {
		text += strings.Repeat(" ", width-w)
	}
	return text
}
