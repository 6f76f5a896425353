// Package settings renders the file tree settings panel and pushes every
// change to the kernel.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/logging"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/theme"
)

// Field identifiers in display order.
const (
	FieldAlwaysSelectOpenedFile = "alwaysSelectOpenedFile"
	FieldOpenFilesUseCurrentTab = "openFilesUseCurrentTab"
	FieldAllowCreateDeeper      = "allowCreateDeeper"
	FieldCreateDocNameTemplate  = "createDocNameTemplate"
	FieldRefCreateSavePath      = "refCreateSavePath"
	FieldMaxListCount           = "maxListCount"
)

type fieldKind int

const (
	kindToggle fieldKind = iota
	kindText
	kindNumber
)

type field struct {
	id      string
	kind    fieldKind
	checked bool
	input   textinput.Model
	// committed is the text value last sent, used to detect edits on blur.
	committed string
}

// Client is the part of the kernel API the panel calls.
type Client interface {
	SetFiletree(ctx context.Context, ft conf.FileTree) (*conf.FileTree, error)
}

// FiletreeChangedMsg carries the kernel's canonical copy after a Send.
type FiletreeChangedMsg struct {
	FileTree *conf.FileTree
	Err      error
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Commit key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("down", "tab")),
	Prev:   key.NewBinding(key.WithKeys("up", "shift+tab")),
	Toggle: key.NewBinding(key.WithKeys(" ", "enter")),
	Commit: key.NewBinding(key.WithKeys("enter")),
}

// Panel is the file tree settings form.
type Panel struct {
	ctx    context.Context
	client Client
	lang   conf.Languages
	styles *theme.Styles

	ft     conf.FileTree
	fields []field
	focus  int
	bound  bool
}

// New returns a panel showing ft. The panel keeps its own copy.
func New(ft *conf.FileTree, client Client, lang conf.Languages, styles *theme.Styles) *Panel {
	if ft == nil {
		ft = conf.NewFileTree()
	}
	if lang == nil {
		lang = conf.DefaultLanguages()
	}
	if styles == nil {
		styles = theme.Default()
	}
	p := &Panel{
		ctx:    context.Background(),
		client: client,
		lang:   lang,
		styles: styles,
		ft:     *ft,
	}
	p.fields = []field{
		{id: FieldAlwaysSelectOpenedFile, kind: kindToggle},
		{id: FieldOpenFilesUseCurrentTab, kind: kindToggle},
		{id: FieldAllowCreateDeeper, kind: kindToggle},
		{id: FieldCreateDocNameTemplate, kind: kindText, input: newInput(styles, 1024)},
		{id: FieldRefCreateSavePath, kind: kindText, input: newInput(styles, 1024)},
		{id: FieldMaxListCount, kind: kindNumber, input: newInput(styles, 16)},
	}
	return p
}

func newInput(styles *theme.Styles, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = limit
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		ti.Cursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		ti.TextStyle = styles.Filter.Copy()
	}
	return ti
}

// FileTree returns the configuration the panel currently reflects.
func (p *Panel) FileTree() conf.FileTree { return p.ft }

// Focused returns the id of the field with focus.
func (p *Panel) Focused() string { return p.fields[p.focus].id }

// Bound reports whether BindEvent has run.
func (p *Panel) Bound() bool { return p.bound }

// BindEvent fills the inputs from the configuration and starts listening
// for changes.
func (p *Panel) BindEvent() tea.Cmd {
	p.populate()
	p.bound = true
	p.focus = 0
	return p.focusField(0)
}

func (p *Panel) populate() {
	for i := range p.fields {
		f := &p.fields[i]
		switch f.id {
		case FieldAlwaysSelectOpenedFile:
			f.checked = p.ft.AlwaysSelectOpenedFile
		case FieldOpenFilesUseCurrentTab:
			f.checked = p.ft.OpenFilesUseCurrentTab
		case FieldAllowCreateDeeper:
			f.checked = p.ft.AllowCreateDeeper
		case FieldCreateDocNameTemplate:
			f.input.SetValue(p.ft.CreateDocNameTemplate)
		case FieldRefCreateSavePath:
			f.input.SetValue(p.ft.RefCreateSavePath)
		case FieldMaxListCount:
			f.input.SetValue(strconv.Itoa(p.ft.MaxListCount))
		}
		f.committed = f.input.Value()
	}
}

func (p *Panel) focusField(idx int) tea.Cmd {
	for i := range p.fields {
		if i != idx {
			p.fields[i].input.Blur()
		}
	}
	p.focus = idx
	if p.fields[idx].kind == kindToggle {
		return nil
	}
	return p.fields[idx].input.Focus()
}

// Update routes keys to the focused field and applies kernel responses.
func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FiletreeChangedMsg:
		if msg.Err != nil {
			events.Settings.Failed(msg.Err)
			logging.Error(fmt.Errorf("set file tree: %w", msg.Err))
			return nil
		}
		p.OnSetFiletree(msg.FileTree)
		return nil
	case tea.KeyMsg:
		if !p.bound {
			return nil
		}
		return p.handleKey(msg)
	}
	return nil
}

func (p *Panel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Next):
		return p.move(1)
	case key.Matches(msg, keys.Prev):
		return p.move(-1)
	}
	f := &p.fields[p.focus]
	if f.kind == kindToggle {
		if key.Matches(msg, keys.Toggle) {
			f.checked = !f.checked
			events.Settings.Change(f.id)
			return p.Send()
		}
		return nil
	}
	if key.Matches(msg, keys.Commit) {
		return p.commit(f)
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// move shifts focus, committing a modified text field first.
func (p *Panel) move(delta int) tea.Cmd {
	cmds := []tea.Cmd{}
	if cmd := p.commit(&p.fields[p.focus]); cmd != nil {
		cmds = append(cmds, cmd)
	}
	next := (p.focus + delta + len(p.fields)) % len(p.fields)
	if cmd := p.focusField(next); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (p *Panel) commit(f *field) tea.Cmd {
	if f.kind == kindToggle || f.input.Value() == f.committed {
		return nil
	}
	f.committed = f.input.Value()
	events.Settings.Change(f.id)
	return p.Send()
}

// Send posts every field value to setting/setFiletree.
func (p *Panel) Send() tea.Cmd {
	payload := p.read()
	events.Settings.Send(payload)
	client, ctx := p.client, p.ctx
	return func() tea.Msg {
		ft, err := client.SetFiletree(ctx, payload)
		return FiletreeChangedMsg{FileTree: ft, Err: err}
	}
}

func (p *Panel) read() conf.FileTree {
	ft := conf.FileTree{Sort: p.ft.Sort}
	for _, f := range p.fields {
		switch f.id {
		case FieldAlwaysSelectOpenedFile:
			ft.AlwaysSelectOpenedFile = f.checked
		case FieldOpenFilesUseCurrentTab:
			ft.OpenFilesUseCurrentTab = f.checked
		case FieldAllowCreateDeeper:
			ft.AllowCreateDeeper = f.checked
		case FieldCreateDocNameTemplate:
			ft.CreateDocNameTemplate = f.input.Value()
		case FieldRefCreateSavePath:
			ft.RefCreateSavePath = f.input.Value()
		case FieldMaxListCount:
			ft.MaxListCount = ParseInt(f.input.Value())
		}
	}
	return ft
}

// OnSetFiletree replaces the configuration with the kernel's copy and
// refreshes the displayed values.
func (p *Panel) OnSetFiletree(ft *conf.FileTree) {
	if ft == nil {
		return
	}
	p.ft = *ft
	events.Settings.Applied(p.ft)
	if p.bound {
		p.populate()
	}
}

// ParseInt reads a leading optionally signed integer the way JavaScript's
// parseInt does without a radix: decimal, or hexadecimal after a 0x prefix.
// Input without leading digits yields 0.
func ParseInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	base := 10
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		s = s[2:]
	}
	const limit = 1 << 31
	n := 0
	for i := 0; i < len(s); i++ {
		d := digitValue(s[i])
		if d >= base {
			break
		}
		if n < limit {
			n = n*base + d
		}
	}
	if n > limit {
		n = limit
	}
	if neg {
		return -n
	}
	return n
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 36
}

// Flush commits the focused field if it was edited and not yet sent.
func (p *Panel) Flush() tea.Cmd {
	if !p.bound {
		return nil
	}
	return p.commit(&p.fields[p.focus])
}
