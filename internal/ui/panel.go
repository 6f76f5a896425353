package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var panelBorder = lipgloss.RoundedBorder()

// renderPreviewPanel draws the side panel as exactly height rows of width
// cells. The top edge carries the panel title and a position counter; the
// scroll offset is clamped here so resizes never leave it past the end.
func (m *Model) renderPreviewPanel(p *previewData, width, height int) string {
	innerW, innerH := max(width-2, 1), max(height-2, 1)
	title, counter := "Panel", ""
	var body []string
	failed := false
	if p != nil {
		title = panelTitle(p)
		switch {
		case p.err != "":
			body, failed = []string{p.err}, true
		case len(p.lines) > 0:
			p.scrollOffset = min(max(p.scrollOffset, 0), max(len(p.lines)-innerH, 0))
			end := min(p.scrollOffset+innerH, len(p.lines))
			body = p.lines[p.scrollOffset:end]
			counter = fmt.Sprintf(" %d/%d ", end, len(p.lines))
		}
	}

	side := previewBorderStyle.Render(panelBorder.Left)
	rows := make([]string, 0, innerH+2)
	rows = append(rows, panelTop(title, counter, width))
	for i := 0; i < innerH; i++ {
		var cell string
		if i < len(body) {
			cell = body[i]
		}
		cell = padCell(cell, innerW)
		switch {
		case failed:
			cell = renderStyled(styles.PreviewError, cell)
		case !strings.Contains(cell, "\x1b["):
			cell = renderStyled(styles.PreviewBody, cell)
		}
		rows = append(rows, side+cell+side)
	}
	rows = append(rows, previewBorderStyle.Render(panelBorder.BottomLeft+strings.Repeat(panelBorder.Bottom, innerW)+panelBorder.BottomRight))
	return strings.Join(rows, "\n")
}

// panelTop renders ╭─ title ───── n/m ─╮, dropping the counter and then the
// title when the panel is too narrow.
func panelTop(title, counter string, width int) string {
	seg := " " + title + " "
	fill := width - 4 - lipgloss.Width(seg) - lipgloss.Width(counter)
	if fill < 0 {
		counter = ""
		fill = width - 4 - lipgloss.Width(seg)
	}
	if fill < 0 {
		seg = " … "
		fill = width - 7
	}
	b := panelBorder
	return previewBorderStyle.Render(b.TopLeft+b.Top) +
		renderStyled(styles.PreviewTitle, seg) +
		previewBorderStyle.Render(strings.Repeat(b.Top, max(fill, 0))) +
		previewScrollStyle.Render(counter) +
		previewBorderStyle.Render(b.Top+b.TopRight)
}
