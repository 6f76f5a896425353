package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
)

// previewData is the content of the side panel opened from the doc menu.
type previewData struct {
	kind         string
	label        string
	lines        []string
	err          string
	scrollOffset int // position within lines; clamped by renderPreviewPanel
}

func (m *Model) handlePanelMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(menu.PanelMsg)
	if !ok {
		return nil
	}
	m.clearPending()
	m.closeMenu()
	data := &previewData{kind: update.Kind, label: update.Title, lines: update.Lines}
	if update.Err != nil {
		data.err = update.Err.Error()
		data.lines = nil
	}
	m.panel = data
	events.UI.Panel(update.Kind, len(data.lines))
	m.setMode(ModePanel)
	return nil
}

func (m *Model) closePanel() {
	m.panel = nil
	if m.mode == ModePanel {
		m.setMode(m.baseMode())
	}
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.closePanel()
	case "up", "k":
		m.scrollPanel(-1)
	case "down", "j":
		m.scrollPanel(1)
	case "pgup":
		m.scrollPanel(-m.panelInnerHeight())
	case "pgdown":
		m.scrollPanel(m.panelInnerHeight())
	case "home":
		m.scrollPanel(-len(m.panelLines()))
	case "end":
		m.scrollPanel(len(m.panelLines()))
	}
	return nil
}

func (m *Model) panelLines() []string {
	if m.panel == nil {
		return nil
	}
	return m.panel.lines
}

// panelInnerHeight is the number of content rows inside the panel border.
func (m *Model) panelInnerHeight() int {
	h := m.panelHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) scrollPanel(delta int) {
	if m.panel == nil {
		return
	}
	maxOffset := len(m.panel.lines) - m.panelInnerHeight()
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.panel.scrollOffset += delta
	if m.panel.scrollOffset > maxOffset {
		m.panel.scrollOffset = maxOffset
	}
	if m.panel.scrollOffset < 0 {
		m.panel.scrollOffset = 0
	}
}

func panelTitle(data *previewData) string {
	label := strings.TrimSpace(data.label)
	if label == "" {
		label = data.kind
	}
	return label
}
