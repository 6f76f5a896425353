package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column describes how one column is laid out. Max caps the column width in
// cells; longer cells are cut with an ellipsis. Zero means no cap.
type Column struct {
	Align Alignment
	Max   int
}

const gap = "  "

// Format pads rows so every column is as wide as its widest cell. Cells may
// carry ANSI styling; wide runes count as two cells.
func Format(rows [][]string, cols []Column) []string {
	if len(rows) == 0 {
		return nil
	}
	cells := make([][]string, len(rows))
	var widths []int
	for r, row := range rows {
		cells[r] = make([]string, len(row))
		for c, cell := range row {
			if c < len(cols) && cols[c].Max > 0 && lipgloss.Width(cell) > cols[c].Max {
				cell = truncate.StringWithTail(cell, uint(cols[c].Max), "…")
			}
			cells[r][c] = cell
			for len(widths) <= c {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	out := make([]string, len(cells))
	for r, row := range cells {
		parts := make([]string, len(row))
		for c, cell := range row {
			pad := strings.Repeat(" ", widths[c]-lipgloss.Width(cell))
			if c < len(cols) && cols[c].Align == AlignRight {
				parts[c] = pad + cell
			} else {
				parts[c] = cell + pad
			}
		}
		out[r] = strings.Join(parts, gap)
	}
	return out
}
