package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

const reminderLayout = "2006-01-02 15:04"

// ReminderPrompt requests the reminder form for a document.
type ReminderPrompt struct {
	Context Context
	Info    model.DocInfo
}

func ReminderAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		return ReminderPrompt{Context: ctx, Info: ctx.Info}
	}
}

// ReminderCommand stores timed (yyyyMMddHHmmss, "0" clears) on the document.
func ReminderCommand(ctx Context, id, timed string) tea.Cmd {
	return func() tea.Msg {
		events.Menu.Reminder(id, timed)
		if err := ctx.Client.SetBlockReminder(ctx.ctx(), id, timed); err != nil {
			return ActionResult{Err: err}
		}
		if timed == "0" {
			return ActionResult{Info: ctx.label("reminderClear")}
		}
		return ActionResult{Info: ctx.label("reminderSet")}
	}
}

// ReminderForm collects a reminder time.
type ReminderForm struct {
	ctx   Context
	info  model.DocInfo
	input textinput.Model
	err   string
}

func NewReminderForm(prompt ReminderPrompt) *ReminderForm {
	ti := textinput.New()
	ti.Placeholder = reminderLayout
	ti.CharLimit = len(reminderLayout)
	ti.Cursor.SetMode(cursor.CursorStatic)
	if current := prompt.Info.Attr(model.AttrReminder); current != "" {
		if t, err := ids.ParseStamp(current); err == nil {
			ti.SetValue(t.Format(reminderLayout))
		}
	}
	ti.Focus()
	return &ReminderForm{ctx: prompt.Context, info: prompt.Info, input: ti}
}

func (f *ReminderForm) Title() string     { return f.ctx.label("wechatReminder") }
func (f *ReminderForm) Help() string      { return f.ctx.label("reminderTime") }
func (f *ReminderForm) InputView() string { return f.input.View() }
func (f *ReminderForm) Error() string     { return f.err }

// ParseReminder converts form input into the stamp the kernel stores. An
// empty value clears the reminder.
func ParseReminder(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "0", nil
	}
	t, err := time.ParseInLocation(reminderLayout, value, time.Local)
	if err != nil {
		return "", fmt.Errorf("expected %s", reminderLayout)
	}
	return ids.Stamp(t), nil
}

// Update returns (cmd, done, cancel).
func (f *ReminderForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyEnter:
			timed, err := ParseReminder(f.input.Value())
			if err != nil {
				f.err = err.Error()
				return nil, false, false
			}
			f.err = ""
			return ReminderCommand(f.ctx, f.info.ID, timed), true, false
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd, false, false
}
