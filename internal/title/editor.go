// Package title implements the document title editor: a single-line input
// that renames the document on blur, exposes copy and attribute shortcuts
// and shows the attribute strip below the title.
package title

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/filename"
	"github.com/atomicstack/notebook-popup-control/internal/ids"
	"github.com/atomicstack/notebook-popup-control/internal/logging"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/theme"
)

// RenderState tracks whether the title has been populated from the kernel.
type RenderState int

const (
	Unrendered RenderState = iota
	Rendering
	Rendered
)

func (s RenderState) String() string {
	switch s {
	case Rendering:
		return "rendering"
	case Rendered:
		return "rendered"
	default:
		return "unrendered"
	}
}

// Copy kinds accepted by Copy.
const (
	CopyRef      = "ref"
	CopyEmbed    = "embed"
	CopyProtocol = "protocol"
	CopyHPath    = "hpath"
	CopyID       = "id"
)

// SourceEditor marks drags that started inside the document editor.
const SourceEditor = "editor"

// freshWindow is how young a document must be for the title to take focus
// with its text selected.
const freshWindow = 2 * time.Second

var (
	writeClipboardFn = clipboard.WriteAll
	nowFn            = time.Now
)

// Client is the part of the kernel API the title editor calls.
type Client interface {
	DocInfo(ctx context.Context, id string) (model.DocInfo, error)
	RenameDoc(ctx context.Context, notebook, path, title string) error
	HPathByID(ctx context.Context, id string) (string, error)
	DocBlocks(ctx context.Context, id string) ([]model.Block, error)
}

// Options configures a new Editor.
type Options struct {
	DocID  string
	Client Client
	Keymap conf.Keymap
	Lang   conf.Languages
	Styles *theme.Styles
}

// Editor is the title surface of one document.
type Editor struct {
	ctx    context.Context
	docID  string
	client Client
	lang   conf.Languages
	keys   KeyMap
	styles *theme.Styles

	input      textinput.Model
	state      RenderState
	generation int
	info       model.DocInfo
	hasInfo    bool
	untitled   bool
	selected   bool
	composing  bool
	badges     []Badge
}

// New creates an unrendered editor. Call Render to populate it.
func New(opts Options) *Editor {
	lang := opts.Lang
	if lang == nil {
		lang = conf.DefaultLanguages()
	}
	styles := opts.Styles
	if styles == nil {
		styles = theme.Default()
	}
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Placeholder = lang.Get("untitled")
	ti.Cursor.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		ti.Cursor.Style = styles.Cursor.Copy()
	}
	if styles.TitleInput != nil {
		ti.TextStyle = styles.TitleInput.Copy()
	}
	if styles.FilterPlaceholder != nil {
		ti.PlaceholderStyle = styles.FilterPlaceholder.Copy()
	}
	return &Editor{
		ctx:    context.Background(),
		docID:  opts.DocID,
		client: opts.Client,
		lang:   lang,
		keys:   NewKeyMap(opts.Keymap, lang),
		styles: styles,
		input:  ti,
	}
}

func (e *Editor) DocID() string               { return e.docID }
func (e *Editor) State() RenderState          { return e.state }
func (e *Editor) Value() string               { return e.input.Value() }
func (e *Editor) Untitled() bool              { return e.untitled }
func (e *Editor) Selected() bool              { return e.selected }
func (e *Editor) Focused() bool               { return e.input.Focused() }
func (e *Editor) Badges() []Badge             { return append([]Badge(nil), e.badges...) }
func (e *Editor) Keys() KeyMap                { return e.keys }
func (e *Editor) Info() (model.DocInfo, bool) { return e.info, e.hasInfo }

// SetComposing marks an input method composition in progress. While set,
// keys go straight to the input without shortcut handling.
func (e *Editor) SetComposing(composing bool) { e.composing = composing }

// SetKeymap rebinds the shortcuts.
func (e *Editor) SetKeymap(km conf.Keymap) { e.keys = NewKeyMap(km, e.lang) }

// Focus gives the title keyboard focus.
func (e *Editor) Focus() tea.Cmd {
	events.UI.Focus("title")
	return e.input.Focus()
}

// Render fetches doc info and repopulates the title. Without refresh it does
// nothing once a render has started.
func (e *Editor) Render(refresh bool) tea.Cmd {
	if e.state != Unrendered && !refresh {
		events.Title.RenderSkipped(e.docID, e.state.String())
		return nil
	}
	e.generation++
	gen := e.generation
	e.state = Rendering
	events.Title.Render(e.docID, refresh, gen)
	client, ctx, id := e.client, e.ctx, e.docID
	return func() tea.Msg {
		info, err := client.DocInfo(ctx, id)
		return RenderedMsg{Generation: gen, Info: info, Err: err}
	}
}

// Update applies responses of commands the editor issued earlier.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RenderedMsg:
		return e.applyRendered(msg)
	case RenamedMsg:
		if msg.Err != nil {
			logging.Error(msg.Err)
			return status("", msg.Err)
		}
		if e.hasInfo {
			e.info.IAL = cloneIAL(e.info.IAL)
			e.info.IAL[model.AttrTitle] = msg.Title
		}
		return tea.SetWindowTitle(msg.Title)
	case tea.KeyMsg:
		return e.Key(msg)
	}
	return nil
}

func (e *Editor) applyRendered(msg RenderedMsg) tea.Cmd {
	if msg.Generation != e.generation {
		events.Title.RenderStale(e.docID, msg.Generation, e.generation)
		return nil
	}
	if msg.Err != nil {
		e.state = Unrendered
		logging.Error(fmt.Errorf("render title %s: %w", e.docID, msg.Err))
		return status("", msg.Err)
	}
	e.info = msg.Info
	e.hasInfo = true
	text := msg.Info.Title()
	e.input.SetValue(text)
	e.untitled = text == e.lang.Get("untitled")
	e.badges = BuildBadges(msg.Info, e.rootID())
	e.state = Rendered
	events.Title.Rendered(e.docID, text, len(e.badges))

	cmds := []tea.Cmd{tea.SetWindowTitle(text)}
	if created, err := ids.TimeOf(msg.Info.ID); err == nil && nowFn().Sub(created) < freshWindow {
		e.selected = true
		e.input.CursorEnd()
		cmds = append(cmds, e.Focus())
	}
	return tea.Batch(cmds...)
}

func (e *Editor) rootID() string {
	if e.hasInfo && e.info.RootID != "" {
		return e.info.RootID
	}
	return e.docID
}

// Paste inserts sanitized text at the cursor, replacing the selection.
func (e *Editor) Paste(text string) {
	clean := filename.ReplaceFileName(text)
	events.Title.Paste(e.docID, len(text), len(clean))
	e.insert(clean)
}

func (e *Editor) insert(text string) {
	if e.selected {
		e.selected = false
		e.input.SetValue(text)
		e.input.CursorEnd()
		return
	}
	runes := []rune(e.input.Value())
	pos := e.input.Position()
	if pos > len(runes) {
		pos = len(runes)
	}
	inserted := []rune(text)
	value := make([]rune, 0, len(runes)+len(inserted))
	value = append(value, runes[:pos]...)
	value = append(value, inserted...)
	value = append(value, runes[pos:]...)
	e.input.SetValue(string(value))
	e.input.SetCursor(pos + len(inserted))
}

// Drop handles text dragged onto the title. Drags from the document editor
// are ignored; anything else is inserted as-is. It reports whether the text
// was inserted.
func (e *Editor) Drop(source, text string) bool {
	if source == SourceEditor {
		events.Title.DropSuppressed(e.docID, source)
		return false
	}
	e.insert(text)
	return true
}

// Blur leaves the title. A valid title is normalized and sent to the kernel;
// an invalid one is sanitized in place and not sent.
func (e *Editor) Blur() tea.Cmd {
	if !e.input.Focused() {
		return nil
	}
	e.input.Blur()
	e.selected = false
	e.composing = false
	text := e.input.Value()
	if !e.hasInfo {
		// Nothing to rename yet; the pending render fills the title.
		events.Title.Blur(e.docID, text, false)
		return nil
	}
	if err := filename.ValidateName(text); err != nil {
		events.Title.Blur(e.docID, text, false)
		e.input.SetValue(filename.ReplaceFileName(text))
		return status("", fmt.Errorf("%s: %w", e.lang.Get("fileNameError"), err))
	}
	events.Title.Blur(e.docID, text, true)
	untitled := e.lang.Get("untitled")
	if trimmed := strings.TrimSpace(text); trimmed == "" || trimmed == untitled {
		text = untitled
		e.untitled = true
	} else {
		e.untitled = false
	}
	name := filename.ReplaceFileName(text)
	e.input.SetValue(name)

	notebook, path := e.info.Box, e.info.Path
	events.Title.Rename(e.docID, notebook, path, name)
	client, ctx := e.client, e.ctx
	return func() tea.Msg {
		err := client.RenameDoc(ctx, notebook, path, name)
		return RenamedMsg{Title: name, Err: err}
	}
}

// Key interprets one key press while the title has focus. Shortcuts are
// checked in a fixed order and the first match wins; other keys edit the
// text.
func (e *Editor) Key(msg tea.KeyMsg) tea.Cmd {
	if msg.Paste {
		e.Paste(string(msg.Runes))
		return nil
	}
	if e.composing {
		return e.edit(msg)
	}
	switch {
	case key.Matches(msg, e.keys.Content):
		events.Title.Shortcut(e.docID, "content")
		return e.focusContent()
	case key.Matches(msg, e.keys.Attr):
		events.Title.Shortcut(e.docID, "attr")
		return e.OpenAttr("")
	case key.Matches(msg, e.keys.SelectAll):
		events.Title.Shortcut(e.docID, "selectAll")
		e.selected = true
		e.input.CursorEnd()
		return nil
	case key.Matches(msg, e.keys.CopyBlockRef):
		return e.Copy(CopyRef)
	case key.Matches(msg, e.keys.CopyBlockEmbed):
		return e.Copy(CopyEmbed)
	case key.Matches(msg, e.keys.CopyProtocol):
		return e.Copy(CopyProtocol)
	case key.Matches(msg, e.keys.CopyHPath):
		return e.Copy(CopyHPath)
	}
	return e.edit(msg)
}

func (e *Editor) edit(msg tea.KeyMsg) tea.Cmd {
	if e.selected {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			e.input.SetValue("")
		case tea.KeyBackspace, tea.KeyDelete:
			e.selected = false
			e.input.SetValue("")
			return nil
		}
		e.selected = false
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return cmd
}

func (e *Editor) focusContent() tea.Cmd {
	client, ctx, id := e.client, e.ctx, e.rootID()
	return func() tea.Msg {
		blocks, err := client.DocBlocks(ctx, id)
		if err != nil {
			return FocusContentMsg{Err: err}
		}
		block, ok := model.FirstContentBlock(blocks)
		return FocusContentMsg{Block: block, Found: ok}
	}
}

// OpenAttr fetches doc info and asks the host to open the attribute editor
// with field focused.
func (e *Editor) OpenAttr(field string) tea.Cmd {
	client, ctx, id := e.client, e.ctx, e.rootID()
	return func() tea.Msg {
		info, err := client.DocInfo(ctx, id)
		return OpenAttrMsg{Info: info, Focus: field, Err: err}
	}
}

// ClickIcon handles a click on the document icon.
func (e *Editor) ClickIcon(shift bool) tea.Cmd {
	if shift {
		return e.OpenAttr("")
	}
	return e.ContextMenu()
}

// ContextMenu fetches doc info and asks the host to show the document menu.
func (e *Editor) ContextMenu() tea.Cmd {
	client, ctx, id := e.client, e.ctx, e.rootID()
	return func() tea.Msg {
		info, err := client.DocInfo(ctx, id)
		return MenuRequestedMsg{Info: info, Err: err}
	}
}

// ClickAttr handles a click on the attribute strip. kinds lists the badges
// under the pointer; the first in bookmark, name, alias, memo order opens the
// attribute editor on that field. The refcount badge does nothing.
func (e *Editor) ClickAttr(kinds ...string) tea.Cmd {
	hit := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		hit[k] = true
	}
	client, ctx, id := e.client, e.ctx, e.rootID()
	return func() tea.Msg {
		info, err := client.DocInfo(ctx, id)
		if err != nil {
			return StatusMsg{Err: err}
		}
		for _, kind := range attrClickOrder {
			if hit[kind] {
				return OpenAttrMsg{Info: info, Focus: kind}
			}
		}
		return nil
	}
}

// ClickStrip resolves a click at column col of the attribute strip.
func (e *Editor) ClickStrip(col int) tea.Cmd {
	b, ok := badgeAt(e.badges, col)
	if !ok {
		return nil
	}
	return e.ClickAttr(b.Kind)
}

// Copy writes a reference to the document to the clipboard.
func (e *Editor) Copy(kind string) tea.Cmd {
	id := e.rootID()
	events.Title.Copy(e.docID, kind)
	var text string
	switch kind {
	case CopyRef:
		text = fmt.Sprintf("((%s '%s'))", id, e.input.Value())
	case CopyEmbed:
		text = fmt.Sprintf("{{select * from blocks where id='%s'}}", id)
	case CopyProtocol:
		text = "siyuan://blocks/" + id
	case CopyID:
		text = id
	case CopyHPath:
		client, ctx := e.client, e.ctx
		return func() tea.Msg {
			hpath, err := client.HPathByID(ctx, id)
			if err != nil {
				return CopiedMsg{Kind: kind, Err: err}
			}
			return CopiedMsg{Kind: kind, Text: hpath, Err: writeClipboardFn(hpath)}
		}
	default:
		return status("", fmt.Errorf("unknown copy kind %q", kind))
	}
	return func() tea.Msg {
		return CopiedMsg{Kind: kind, Text: text, Err: writeClipboardFn(text)}
	}
}

// View renders the icon, the title and, when present, the attribute strip.
func (e *Editor) View() string {
	icon := "▤"
	if e.styles.TitleIcon != nil {
		icon = e.styles.TitleIcon.Render(icon)
	}
	var text string
	switch {
	case e.selected && e.input.Value() != "":
		text = e.styles.SelectedItem.Render(e.input.Value())
	case e.input.Focused():
		text = e.input.View()
	case e.untitled && e.styles.TitleUntitled != nil:
		text = e.styles.TitleUntitled.Render(e.input.Value())
	case e.input.Value() == "":
		text = e.input.View()
	default:
		text = e.styles.TitleInput.Render(e.input.Value())
	}
	line := icon + " " + text
	if len(e.badges) == 0 {
		return line
	}
	return line + "\n" + renderStrip(e.badges, e.styles)
}

func status(info string, err error) tea.Cmd {
	return func() tea.Msg { return StatusMsg{Info: info, Err: err} }
}

func cloneIAL(ial map[string]string) map[string]string {
	out := make(map[string]string, len(ial)+1)
	for k, v := range ial {
		out[k] = v
	}
	return out
}
