package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
	"github.com/atomicstack/notebook-popup-control/internal/ui/command"
)

// openDocMenu replaces the popup's items with a fresh document menu and
// shows it. Only one menu exists; the previous one is removed first.
func (m *Model) openDocMenu() tea.Cmd {
	var blur tea.Cmd
	if m.editor != nil {
		blur = m.editor.Blur()
	}
	m.popup.Remove()
	ctx := m.menuContext()
	m.popup.Append(menu.DocMenuItems(ctx)...)
	m.popup.Popup(m.menuPos)
	root := newLevel("root", ctx.Title, m.popup.Items(), m.registry.Root())
	m.stack = []*level{root}
	m.syncViewport(root)
	m.loading = false
	m.pendingID = ""
	m.errMsg = ""
	m.setMode(ModeMenu)
	return blur
}

// closeMenu hides the popup and returns to the base mode.
func (m *Model) closeMenu() {
	m.popup.Remove()
	m.stack = nil
	if m.mode == ModeMenu {
		m.setMode(m.baseMode())
	}
}

func (m *Model) handleEscapeKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil || len(m.stack) <= 1 {
		m.closeMenu()
		return nil
	}
	parent := m.stack[len(m.stack)-2]
	m.stack = m.stack[:len(m.stack)-1]
	if parent != nil {
		if !parent.SetCursor(parent.LastCursor) {
			if idx := parent.IndexOf(current.ID); idx >= 0 {
				parent.SetCursor(idx)
			}
		}
		parent.LastCursor = -1
		m.syncViewport(parent)
	}
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.Current()
	if !ok {
		return nil
	}
	ctx := m.menuContext()
	events.UI.MenuEnter(current.ID, item.ID, item.Label, current.Filter)
	current.SetFilter("", 0)
	node := current.Node
	if node == nil {
		node, _ = m.registry.Find(current.ID)
	}
	if node != nil {
		if child, ok := node.Children[item.ID]; ok {
			if child.Loader != nil {
				if m.refuseReadOnly(ctx, child) {
					return nil
				}
				current.LastCursor = current.Cursor
				m.startPending(child.ID, item.Label)
				return m.loadMenuCmd(child.ID, item.Label, child.Loader)
			}
			if child.Action != nil {
				return m.runAction(ctx, child, item)
			}
		}
		if node.Action != nil {
			return m.runAction(ctx, node, item)
		}
	}
	m.setInfo(fmt.Sprintf("Selected %s (no action defined yet)", item.Label))
	return nil
}

// runAction hands the node's action to the bus. The pending state is dropped
// again when the bus has nothing to run. Editing actions are refused once
// the editor has turned read-only, even if the menu was opened before.
func (m *Model) runAction(ctx menu.Context, node *menu.Node, item menu.Item) tea.Cmd {
	if m.refuseReadOnly(ctx, node) {
		return nil
	}
	m.startPending(node.ID, item.Label)
	cmd := m.bus.Execute(ctx, command.Request{ID: node.ID, Label: item.Label, Handler: node.Action, Item: item})
	if cmd == nil {
		m.clearPending()
	}
	return cmd
}

func (m *Model) refuseReadOnly(ctx menu.Context, node *menu.Node) bool {
	if !node.Mutating || !ctx.ReadOnly {
		return false
	}
	m.errMsg = m.lang.Get("readOnly")
	return true
}

func (m *Model) startPending(id, label string) {
	m.loading = true
	m.pendingID = id
	m.pendingLabel = label
	m.errMsg = ""
	m.forceClearInfo()
}

func (m *Model) moveCursor(delta int) {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursor(delta) {
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorPageUp() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageUp(m.maxVisibleItems()); moved {
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorPageDown() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorPageDown(m.maxVisibleItems()); moved {
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorHome() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorHome(); moved {
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorEnd() {
	if current := m.currentLevel(); current != nil {
		if moved := current.MoveCursorEnd(); moved {
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.mode {
	case ModeTitle:
		return m.handleTitleKey(keyMsg)
	case ModeBody:
		return m.handleBodyKey(keyMsg)
	case ModeMenu:
		return m.handleMenuKey(keyMsg)
	case ModePanel:
		return m.handlePanelKey(keyMsg)
	case ModeSettings:
		return m.handleSettingsKey(keyMsg)
	}
	return nil
}

func (m *Model) handleTitleKey(msg tea.KeyMsg) tea.Cmd {
	if m.editor.Focused() {
		switch msg.String() {
		case "esc", "tab":
			return m.editor.Blur()
		}
		return m.editor.Key(msg)
	}
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "enter", "i":
		m.errMsg = ""
		return m.editor.Focus()
	case "m":
		return m.editor.ContextMenu()
	case "a":
		return m.editor.ClickIcon(true)
	}
	return m.editor.Key(msg)
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	if handled, cmd := m.handleTextInput(msg); handled {
		return cmd
	}
	switch msg.String() {
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up":
		m.moveCursor(-1)
	case "down":
		m.moveCursor(1)
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		if cmd := m.settings.Flush(); cmd != nil {
			m.closing = true
			return cmd
		}
		return tea.Quit
	}
	return m.settings.Update(msg)
}

func (m *Model) handleCategoryLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(categoryLoadedMsg)
	if !ok {
		return nil
	}
	if update.generation != m.popup.Generation() || !m.popup.Visible() {
		events.Menu.StaleLoad(update.id, update.generation, m.popup.Generation())
		return nil
	}
	if update.id != m.pendingID {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if update.err != nil {
		m.errMsg = update.err.Error()
		return nil
	}
	m.errMsg = ""
	node, _ := m.registry.Find(update.id)
	level := newLevel(update.id, update.title, update.items, node)
	m.syncViewport(level)
	m.stack = append(m.stack, level)
	if len(level.Items) == 0 {
		m.setInfo("No entries found.")
	} else if m.infoMsg != "" {
		m.clearInfo()
	}
	return nil
}

func (m *Model) currentLevel() *level {
	if m.mode == ModeBody {
		return m.body
	}
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}
