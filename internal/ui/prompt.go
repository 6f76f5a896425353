package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/menu"
	"github.com/atomicstack/notebook-popup-control/internal/title"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: close the popup, reset state,
// and execute the provided action. The action can return a promptResult to
// control follow-up behaviour (command to run, informational message, or
// error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.closeMenu()
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	m.forceClearInfo()
	m.errMsg = ""
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

func (m *Model) handleAttrPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.AttrPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startAttrForm(prompt)
		return promptResult{}
	})
}

func (m *Model) handleConfirmPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.ConfirmPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startConfirmForm(prompt)
		return promptResult{}
	})
}

func (m *Model) handleReminderPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.ReminderPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startReminderForm(prompt)
		return promptResult{}
	})
}

// handleOpenAttrMsg opens the attribute editor requested from the title,
// either by shortcut, shift-click on the icon or a click on a badge. These
// paths open it in read-only mode too; only the menu hides the entry.
func (m *Model) handleOpenAttrMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(title.OpenAttrMsg)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		if req.Err != nil {
			return promptResult{Err: req.Err}
		}
		m.menuInfo = req.Info
		var blur tea.Cmd
		if m.editor != nil {
			blur = m.editor.Blur()
		}
		m.startAttrForm(menu.AttrPrompt{Context: m.menuContext(), Info: req.Info, Focus: req.Focus})
		return promptResult{Cmd: blur}
	})
}

// handleMenuRequestedMsg shows the document menu built from fresh doc info.
func (m *Model) handleMenuRequestedMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(title.MenuRequestedMsg)
	if !ok {
		return nil
	}
	if req.Err != nil {
		m.errMsg = req.Err.Error()
		return nil
	}
	m.menuInfo = req.Info
	return m.openDocMenu()
}
