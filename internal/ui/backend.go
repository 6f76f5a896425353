package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent folds a polled snapshot into the stores and refreshes
// whatever surface depends on the section that changed.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if m.backendState == nil {
		m.backendState = make(map[backend.Kind]error)
	}
	m.backendState[evt.Kind] = evt.Err
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		return nil
	}

	res := m.dispatcher.Handle(evt)
	var cmd tea.Cmd

	if res.FileTreeChanged && m.settings != nil {
		m.settings.OnSetFiletree(m.confStore.FileTree())
	}

	if res.EditorChanged && m.mode == ModeMenu && len(m.stack) > 0 {
		root := m.stack[0]
		ctx := m.menuContext()
		m.popup.Remove()
		m.popup.Append(menu.DocMenuItems(ctx)...)
		m.popup.Popup(m.menuPos)
		root.UpdateItems(m.popup.Items())
		m.stack = m.stack[:1]
		m.clearPending()
		m.syncViewport(root)
	}

	if res.DocChanged && m.editor != nil {
		focused := m.editor.Focused()
		events.UI.DocChanged(m.editor.DocID(), focused)
		if !focused {
			cmd = m.editor.Render(true)
		}
	}

	if warn, _ := m.hasBackendIssue(); !warn {
		m.backendLastErr = ""
	}
	return cmd
}

func (m *Model) hasBackendIssue() (bool, string) {
	for _, err := range m.backendState {
		if err != nil {
			msg := m.backendLastErr
			if msg == "" {
				msg = err.Error()
			}
			return true, msg
		}
	}
	return false, ""
}
