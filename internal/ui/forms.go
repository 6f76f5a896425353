package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/menu"
)

// finishForm leaves a dialog. When done is set the command it produced is
// treated as pending until its ActionResult arrives.
func (m *Model) finishForm(id string, cmd tea.Cmd, done bool) tea.Cmd {
	m.setMode(m.baseMode())
	if !done {
		return cmd
	}
	m.loading = true
	m.pendingID = id
	m.pendingLabel = id
	return cmd
}

func (m *Model) handleAttrForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.attrForm == nil {
		return false, nil
	}
	cmd, done, cancel := m.attrForm.Update(msg)
	if cancel || done {
		m.attrForm = nil
		return true, m.finishForm("attr", cmd, done)
	}
	return true, cmd
}

func (m *Model) handleConfirmForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.confirmForm == nil {
		return false, nil
	}
	cmd, done, cancel := m.confirmForm.Update(msg)
	if cancel || done {
		m.confirmForm = nil
		return true, m.finishForm("delete", cmd, done)
	}
	return true, cmd
}

func (m *Model) handleReminderForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.reminderForm == nil {
		return false, nil
	}
	cmd, done, cancel := m.reminderForm.Update(msg)
	if cancel || done {
		m.reminderForm = nil
		return true, m.finishForm("reminder", cmd, done)
	}
	return true, cmd
}

func (m *Model) startAttrForm(prompt menu.AttrPrompt) {
	m.attrForm = menu.NewAttrForm(prompt)
	if m.width > 0 {
		m.attrForm.SetWidth(m.width - 4)
	}
	m.setMode(ModeAttrForm)
}

func (m *Model) startConfirmForm(prompt menu.ConfirmPrompt) {
	m.confirmForm = menu.NewConfirmForm(prompt)
	m.setMode(ModeConfirm)
}

func (m *Model) startReminderForm(prompt menu.ReminderPrompt) {
	m.reminderForm = menu.NewReminderForm(prompt)
	m.setMode(ModeReminder)
}

func (m *Model) viewAttrForm() string {
	return m.viewDialog(m.attrForm.Title(), m.attrForm.Lines(), "", m.attrForm.Help())
}

func (m *Model) viewConfirmForm() string {
	return m.viewDialog(m.confirmForm.Title(), []string{m.confirmForm.Tip()}, "", m.confirmForm.Help())
}

func (m *Model) viewReminderForm() string {
	return m.viewDialog(m.reminderForm.Title(), []string{m.reminderForm.InputView()}, m.reminderForm.Error(), m.reminderForm.Help())
}

// viewDialog lays out a form as title, body, optional error and help, boxed
// when a dialog style is configured.
func (m *Model) viewDialog(title string, body []string, errText, help string) string {
	lines := []string{renderStyled(styles.Header, title), ""}
	lines = append(lines, body...)
	if errText != "" {
		lines = append(lines, "", renderStyled(styles.Error, errText))
	}
	lines = append(lines, "", renderStyled(styles.Footer, help))
	content := strings.Join(lines, "\n")
	if styles.Dialog == nil {
		return content
	}
	return styles.Dialog.Render(content)
}
