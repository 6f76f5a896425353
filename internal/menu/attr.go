package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

// AttrFields lists the attributes the form edits, in display order.
var AttrFields = []string{model.AttrBookmark, model.AttrName, model.AttrAlias, model.AttrMemo}

// AttrPrompt requests the attribute editor. Focus selects the first field.
type AttrPrompt struct {
	Context Context
	Info    model.DocInfo
	Focus   string
}

func AttrAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		return AttrPrompt{Context: ctx, Info: ctx.Info}
	}
}

// SetAttrsCommand writes attrs to the document. Empty values remove the
// attribute.
func SetAttrsCommand(ctx Context, id string, attrs map[string]string) tea.Cmd {
	return func() tea.Msg {
		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		events.Menu.Attrs(id, keys)
		if err := ctx.Client.SetBlockAttrs(ctx.ctx(), id, attrs); err != nil {
			return ActionResult{Err: err}
		}
		return ActionResult{Info: ctx.label("attrSaved")}
	}
}

// AttrForm edits bookmark, name, alias and memo of a document.
type AttrForm struct {
	ctx    Context
	info   model.DocInfo
	inputs []textinput.Model
	focus  int
	width  int
}

func NewAttrForm(prompt AttrPrompt) *AttrForm {
	f := &AttrForm{ctx: prompt.Context, info: prompt.Info, width: 60}
	for _, name := range AttrFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 4096
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(prompt.Info.Attr(name))
		f.inputs = append(f.inputs, ti)
	}
	for i, name := range AttrFields {
		if name == prompt.Focus {
			f.focus = i
		}
	}
	f.inputs[f.focus].Focus()
	return f
}

func (f *AttrForm) Title() string {
	return f.ctx.label("attr") + " · " + docLabel(f.info, f.ctx.Title)
}
func (f *AttrForm) Help() string {
	return "tab next · enter " + f.ctx.label("save") + " · esc " + f.ctx.label("cancel")
}

// Focused returns the attribute name being edited.
func (f *AttrForm) Focused() string { return AttrFields[f.focus] }

// SetWidth bounds the memo preview.
func (f *AttrForm) SetWidth(w int) {
	if w > 10 {
		f.width = w
	}
}

// Values returns the attribute map that Save sends.
func (f *AttrForm) Values() map[string]string {
	out := make(map[string]string, len(AttrFields))
	for i, name := range AttrFields {
		out[name] = strings.TrimSpace(f.inputs[i].Value())
	}
	return out
}

// Update returns (cmd, done, cancel).
func (f *AttrForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return nil, false, true
		case "enter":
			return SetAttrsCommand(f.ctx, f.info.ID, f.Values()), true, false
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.inputs))
			return nil, false, false
		case "shift+tab", "up":
			f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
			return nil, false, false
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false, false
}

func (f *AttrForm) setFocus(idx int) {
	f.inputs[f.focus].Blur()
	f.focus = idx
	f.inputs[f.focus].Focus()
}

// Lines renders one row per field plus the memo preview.
func (f *AttrForm) Lines() []string {
	lines := make([]string, 0, len(AttrFields)+4)
	for i, name := range AttrFields {
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		lines = append(lines, marker+padRight(f.ctx.label(name), 10)+f.inputs[i].View())
	}
	memo := strings.TrimSpace(f.inputs[len(f.inputs)-1].Value())
	if memo == "" {
		return lines
	}
	preview, err := RenderMarkdown(memo, f.width)
	if err != nil {
		return append(lines, "", err.Error())
	}
	lines = append(lines, "")
	return append(lines, strings.Split(strings.TrimRight(preview, "\n"), "\n")...)
}

func padRight(s string, n int) string {
	if w := len([]rune(s)); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}

// RenderMarkdown renders md for the terminal, wrapped at width.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
