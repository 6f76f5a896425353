package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// ConfirmPrompt requests confirmation before a document is deleted.
type ConfirmPrompt struct {
	Context Context
	Info    model.DocInfo
	Name    string
}

// DeleteAction fetches fresh doc info so the sub-document count is current,
// then asks for confirmation.
func DeleteAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		info, err := ctx.Client.DocInfo(ctx.ctx(), ctx.Info.ID)
		if err != nil {
			return ActionResult{Err: err}
		}
		return ConfirmPrompt{Context: ctx, Info: info, Name: docLabel(info, ctx.Title)}
	}
}

// DeleteCommand removes the document.
func DeleteCommand(ctx Context, info model.DocInfo) tea.Cmd {
	return func() tea.Msg {
		events.Menu.Delete(info.Box, info.Path, info.SubFileCount)
		if err := ctx.Client.RemoveDoc(ctx.ctx(), info.Box, info.Path); err != nil {
			return ActionResult{Err: err}
		}
		return ActionResult{Info: ctx.label("deleted"), Close: true}
	}
}

// ConfirmForm is the delete confirmation dialog.
type ConfirmForm struct {
	ctx  Context
	info model.DocInfo
	name string
}

func NewConfirmForm(prompt ConfirmPrompt) *ConfirmForm {
	return &ConfirmForm{ctx: prompt.Context, info: prompt.Info, name: prompt.Name}
}

func (f *ConfirmForm) Title() string { return f.ctx.label("delete") }
func (f *ConfirmForm) Help() string {
	return "y/enter " + f.ctx.label("delete") + " · n/esc " + f.ctx.label("cancel")
}

// Tip renders the question with the document name emphasised and, when the
// document has children, their count.
func (f *ConfirmForm) Tip() string {
	name := lipgloss.NewStyle().Bold(true).Render(ansi.Strip(f.name))
	if f.info.SubFileCount > 0 {
		more := strings.Replace(f.ctx.label("andSubFile"), "x", strconv.Itoa(f.info.SubFileCount), 1)
		return fmt.Sprintf("%s %s %s?", f.ctx.label("confirmDelete"), name, more)
	}
	return fmt.Sprintf("%s %s?", f.ctx.label("confirmDelete"), name)
}

// Update returns (cmd, done, cancel) like the other forms.
func (f *ConfirmForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false, false
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		return DeleteCommand(f.ctx, f.info), true, false
	case "n", "N", "esc", "q":
		return nil, false, true
	}
	return nil, false, false
}
