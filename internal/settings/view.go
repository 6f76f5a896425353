package settings

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

func render(style *lipgloss.Style, s string) string {
	if style == nil {
		return s
	}
	return style.Render(s)
}

// View renders every field with its label, description and value. Before
// BindEvent the values come straight from the configuration.
func (p *Panel) View(width int) string {
	lines := []string{render(p.styles.Header, p.lang.Get("fileTree.title")), ""}
	for i, f := range p.fields {
		active := p.bound && i == p.focus
		indicator := "  "
		if active {
			indicator = render(p.styles.FieldActive, "▌ ")
		}
		label := render(p.styles.FieldLabel, p.lang.Get("fileTree."+f.id))
		value := p.valueView(f)
		lines = append(lines, indicator+label+"  "+value)
		desc := p.lang.Get("fileTree." + f.id + "Desc")
		if width > 4 {
			desc = wordwrap.String(desc, width-4)
		}
		for _, d := range strings.Split(desc, "\n") {
			lines = append(lines, "  "+render(p.styles.FieldDesc, d))
		}
	}
	if width > 0 {
		for i, line := range lines {
			lines[i] = truncate.String(line, uint(width))
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Panel) valueView(f field) string {
	if f.kind == kindToggle {
		checked := f.checked
		if !p.bound {
			checked = p.configToggle(f.id)
		}
		if checked {
			return render(p.styles.ToggleOn, "[x]")
		}
		return render(p.styles.ToggleOff, "[ ]")
	}
	if p.bound {
		return "[" + f.input.View() + "]"
	}
	switch f.id {
	case FieldCreateDocNameTemplate:
		return "[" + p.ft.CreateDocNameTemplate + "]"
	case FieldRefCreateSavePath:
		return "[" + p.ft.RefCreateSavePath + "]"
	default:
		return "[" + strconv.Itoa(p.ft.MaxListCount) + "]"
	}
}

func (p *Panel) configToggle(id string) bool {
	switch id {
	case FieldAlwaysSelectOpenedFile:
		return p.ft.AlwaysSelectOpenedFile
	case FieldOpenFilesUseCurrentTab:
		return p.ft.OpenFilesUseCurrentTab
	case FieldAllowCreateDeeper:
		return p.ft.AllowCreateDeeper
	}
	return false
}

// Help lists the panel keys.
func (p *Panel) Help() string {
	return "↑/↓ move · space/enter toggle or save · esc " + p.lang.Get("close")
}
