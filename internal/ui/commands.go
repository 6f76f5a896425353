package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/logging"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/settings"
	"github.com/atomicstack/notebook-popup-control/internal/title"
)

func (m *Model) clearPending() {
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.clearPending()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		m.closeMenu()
		return nil
	}
	events.Action.Success(result.Info)
	if result.Close {
		m.setInfo(result.Info)
		return tea.Quit
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	m.closeMenu()
	m.setMode(m.baseMode())
	if m.editor == nil {
		return nil
	}
	return m.editor.Render(true)
}

func (m *Model) handleCopyRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(menu.CopyRequest)
	if !ok {
		return nil
	}
	m.clearPending()
	m.closeMenu()
	if m.editor == nil {
		return nil
	}
	return m.editor.Copy(req.Kind)
}

// handleEditorMsg hands render and rename responses back to the editor. A
// rename issued while quitting ends the program once it lands.
func (m *Model) handleEditorMsg(msg tea.Msg) tea.Cmd {
	if m.editor == nil {
		return nil
	}
	cmd := m.editor.Update(msg)
	if renamed, ok := msg.(title.RenamedMsg); ok {
		if renamed.Err == nil && m.verbose {
			m.setInfo(fmt.Sprintf("%s %s", m.lang.Get("renamed"), renamed.Title))
		}
		if m.closing {
			return tea.Batch(cmd, tea.Quit)
		}
	}
	return cmd
}

func (m *Model) handleStatusMsg(msg tea.Msg) tea.Cmd {
	status, ok := msg.(title.StatusMsg)
	if !ok {
		return nil
	}
	if status.Err != nil {
		m.errMsg = status.Err.Error()
	} else if status.Info != "" {
		m.errMsg = ""
		m.setInfo(status.Info)
	}
	if m.closing {
		return tea.Quit
	}
	return nil
}

func (m *Model) handleCopiedMsg(msg tea.Msg) tea.Cmd {
	copied, ok := msg.(title.CopiedMsg)
	if !ok {
		return nil
	}
	if copied.Err != nil {
		m.errMsg = copied.Err.Error()
		logging.Error(copied.Err)
		return nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("%s %s", m.lang.Get("copied"), copied.Text))
	return nil
}

// bodyLoadedMsg carries the document's blocks for the body view.
type bodyLoadedMsg struct {
	blocks []model.Block
	focus  string
	err    error
}

func (m *Model) handleFocusContentMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(title.FocusContentMsg)
	if !ok {
		return nil
	}
	if req.Err != nil {
		m.errMsg = req.Err.Error()
		return nil
	}
	if !req.Found {
		m.setInfo(m.lang.Get("noContent"))
		return nil
	}
	blur := m.editor.Blur()
	return tea.Batch(blur, m.loadBodyCmd(req.Block.ID))
}

func (m *Model) loadBodyCmd(focus string) tea.Cmd {
	client, ctx := m.client, m.ctx()
	id := m.editor.DocID()
	if info, ok := m.editor.Info(); ok && info.RootID != "" {
		id = info.RootID
	}
	return func() tea.Msg {
		blocks, err := client.DocBlocks(ctx, id)
		return bodyLoadedMsg{blocks: blocks, focus: focus, err: err}
	}
}

func (m *Model) handleBodyLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(bodyLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	items := make([]menu.Item, 0, len(loaded.blocks))
	m.bodyBlocks = make(map[string]model.Block, len(loaded.blocks))
	for _, b := range loaded.blocks {
		if model.IsContainer(b.Type) {
			continue
		}
		m.bodyBlocks[b.ID] = b
		items = append(items, menu.Item{ID: b.ID, Label: blockLabel(b)})
	}
	body := newLevel("body", m.lang.Get("body"), items, nil)
	if idx := body.IndexOf(loaded.focus); idx >= 0 {
		body.SetCursor(idx)
	}
	m.body = body
	m.setMode(ModeBody)
	m.syncViewport(body)
	events.UI.Focus("body")
	return nil
}

// blockLabel renders one block as a single line of the body view.
func blockLabel(b model.Block) string {
	content := strings.Join(strings.Fields(b.Content), " ")
	switch b.Type {
	case model.TypeHeading:
		level := 1
		if len(b.SubType) == 2 && b.SubType[0] == 'h' && b.SubType[1] >= '1' && b.SubType[1] <= '6' {
			level = int(b.SubType[1] - '0')
		}
		return strings.Repeat("#", level) + " " + content
	case model.TypeCode:
		return "``` " + content
	case model.TypeThematicBreak:
		return "---"
	}
	if content == "" {
		return "¶"
	}
	return content
}

// handleBodyKey moves through the body blocks. Moving up from the first
// block returns focus to the title.
func (m *Model) handleBodyKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.body == nil || m.body.Cursor <= m.body.FirstSelectable() || m.body.FirstSelectable() < 0 {
			return m.leaveBody()
		}
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	case "esc", "q":
		m.body = nil
		m.bodyBlocks = nil
		m.setMode(ModeTitle)
	}
	return nil
}

func (m *Model) leaveBody() tea.Cmd {
	m.body = nil
	m.bodyBlocks = nil
	m.setMode(ModeTitle)
	return m.editor.Focus()
}

func (m *Model) handleFiletreeChangedMsg(msg tea.Msg) tea.Cmd {
	changed, ok := msg.(settings.FiletreeChangedMsg)
	if !ok || m.settings == nil {
		return nil
	}
	m.settings.Update(changed)
	if changed.Err != nil {
		m.errMsg = changed.Err.Error()
	} else {
		m.errMsg = ""
		m.confStore.SetFileTree(changed.FileTree)
		m.setInfo(m.lang.Get("settingsSaved"))
	}
	if m.closing {
		return tea.Quit
	}
	return nil
}

func (m *Model) loadMenuCmd(id, label string, loader menu.Loader) tea.Cmd {
	ctx := m.menuContext()
	generation := m.popup.Generation()
	return func() tea.Msg {
		items, err := loader(ctx)
		if err != nil {
			logging.Error(err)
		}
		return categoryLoadedMsg{id: id, title: label, items: items, err: err, generation: generation}
	}
}

// categoryLoadedMsg mirrors the async loader response. generation is the
// popup generation the loader was started for.
type categoryLoadedMsg struct {
	id         string
	title      string
	items      []menu.Item
	err        error
	generation int
}

func (m *Model) menuContext() menu.Context {
	ctx := menu.Context{
		Ctx:      m.ctx(),
		Client:   m.client,
		Info:     m.menuInfo,
		ReadOnly: m.confStore.Editor().ReadOnly,
		Lang:     m.lang,
		Keymap:   m.keymap,
	}
	if m.editor != nil {
		ctx.Title = m.editor.Value()
	}
	return ctx
}
