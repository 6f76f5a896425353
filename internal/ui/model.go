package ui

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/data/dispatcher"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
	"github.com/atomicstack/notebook-popup-control/internal/menu"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/settings"
	"github.com/atomicstack/notebook-popup-control/internal/state"
	"github.com/atomicstack/notebook-popup-control/internal/theme"
	"github.com/atomicstack/notebook-popup-control/internal/title"
	"github.com/atomicstack/notebook-popup-control/internal/ui/command"
	uistate "github.com/atomicstack/notebook-popup-control/internal/ui/state"
)

type level = uistate.Level

type Mode int

const (
	ModeTitle Mode = iota
	ModeBody
	ModeMenu
	ModeAttrForm
	ModeConfirm
	ModeReminder
	ModeSettings
	ModePanel
)

func (m Mode) String() string {
	switch m {
	case ModeTitle:
		return "title"
	case ModeBody:
		return "body"
	case ModeMenu:
		return "menu"
	case ModeAttrForm:
		return "attr"
	case ModeConfirm:
		return "confirm"
	case ModeReminder:
		return "reminder"
	case ModeSettings:
		return "settings"
	case ModePanel:
		return "panel"
	}
	return "unknown"
}

// Surface selects what the program edits.
type Surface int

const (
	SurfaceTitle Surface = iota
	SurfaceSettings
)

const menuHeaderSeparator = " → "

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Client is the kernel API surface the UI needs.
type Client interface {
	title.Client
	menu.Client
	settings.Client
}

// Options configures NewModel.
type Options struct {
	Surface    Surface
	DocID      string
	Client     Client
	Conf       *conf.Conf
	Keymap     conf.Keymap
	Lang       conf.Languages
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Watcher    *backend.Watcher
}

// Model implements the Bubble Tea model for the document popup.
type Model struct {
	stack          []*level
	loading        bool
	pendingID      string
	pendingLabel   string
	errMsg         string
	infoMsg        string
	infoExpire     time.Time
	width          int
	height         int
	fixedWidth     bool
	fixedHeight    bool
	backend        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string
	showFooter     bool
	verbose        bool
	filterCursor   cursor.Model
	closing        bool

	handlers map[reflect.Type]msgHandler

	registry   *menu.Registry
	bus        *command.Bus
	mode       Mode
	surface    Surface
	client     Client
	lang       conf.Languages
	keymap     conf.Keymap
	confStore  state.ConfStore
	docStore   state.DocStore
	dispatcher *dispatcher.Dispatcher

	editor       *title.Editor
	settings     *settings.Panel
	popup        menu.Menu
	menuInfo     model.DocInfo
	menuPos      menu.Position
	attrForm     *menu.AttrForm
	confirmForm  *menu.ConfirmForm
	reminderForm *menu.ReminderForm
	body         *level
	bodyBlocks   map[string]model.Block
	panel        *previewData
}

// NewModel initialises the UI for the requested surface.
func NewModel(opts Options) *Model {
	lang := opts.Lang
	if lang == nil {
		lang = conf.DefaultLanguages()
	}
	confStore := state.NewConfStore(opts.Conf)
	docStore := state.NewDocStore()
	m := &Model{
		registry:     menu.BuildRegistry(),
		bus:          command.New(),
		backend:      opts.Watcher,
		backendState: map[backend.Kind]error{},
		showFooter:   opts.ShowFooter,
		verbose:      opts.Verbose,
		surface:      opts.Surface,
		client:       opts.Client,
		lang:         lang,
		keymap:       opts.Keymap,
		confStore:    confStore,
		docStore:     docStore,
		dispatcher:   dispatcher.New(confStore, docStore),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	c.SetMode(cursor.CursorStatic)
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c

	switch opts.Surface {
	case SurfaceSettings:
		m.settings = settings.New(confStore.FileTree(), opts.Client, lang, styles)
		m.mode = ModeSettings
	default:
		m.editor = title.New(title.Options{
			DocID:  opts.DocID,
			Client: opts.Client,
			Keymap: opts.Keymap,
			Lang:   lang,
			Styles: styles,
		})
		m.mode = ModeTitle
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.editor != nil {
		cmds = append(cmds, m.editor.Render(false), m.editor.Focus())
	}
	if m.settings != nil {
		cmds = append(cmds, m.settings.BindEvent())
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return false, nil
	}
	switch m.mode {
	case ModeAttrForm:
		return m.handleAttrForm(msg)
	case ModeConfirm:
		return m.handleConfirmForm(msg)
	case ModeReminder:
		return m.handleReminderForm(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):                  m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):                m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):           m.handleWindowSizeMsg,
		reflect.TypeOf(categoryLoadedMsg{}):           m.handleCategoryLoadedMsg,
		reflect.TypeOf(bodyLoadedMsg{}):               m.handleBodyLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}):           m.handleActionResultMsg,
		reflect.TypeOf(menu.AttrPrompt{}):             m.handleAttrPromptMsg,
		reflect.TypeOf(menu.ConfirmPrompt{}):          m.handleConfirmPromptMsg,
		reflect.TypeOf(menu.ReminderPrompt{}):         m.handleReminderPromptMsg,
		reflect.TypeOf(menu.CopyRequest{}):            m.handleCopyRequestMsg,
		reflect.TypeOf(menu.PanelMsg{}):               m.handlePanelMsg,
		reflect.TypeOf(title.RenderedMsg{}):           m.handleEditorMsg,
		reflect.TypeOf(title.RenamedMsg{}):            m.handleEditorMsg,
		reflect.TypeOf(title.StatusMsg{}):             m.handleStatusMsg,
		reflect.TypeOf(title.CopiedMsg{}):             m.handleCopiedMsg,
		reflect.TypeOf(title.FocusContentMsg{}):       m.handleFocusContentMsg,
		reflect.TypeOf(title.OpenAttrMsg{}):           m.handleOpenAttrMsg,
		reflect.TypeOf(title.MenuRequestedMsg{}):      m.handleMenuRequestedMsg,
		reflect.TypeOf(settings.FiletreeChangedMsg{}): m.handleFiletreeChangedMsg,
		reflect.TypeOf(backendEventMsg{}):             m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):              m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// baseMode is the mode dialogs and menus return to.
func (m *Model) baseMode() Mode {
	if m.surface == SurfaceSettings {
		return ModeSettings
	}
	return ModeTitle
}

func (m *Model) setMode(next Mode) {
	if next == m.mode {
		return
	}
	events.UI.Mode(m.mode.String(), next.String())
	m.mode = next
}

// Mode reports the active interaction mode.
func (m *Model) Mode() Mode { return m.mode }

// Editor exposes the title editor; nil on the settings surface.
func (m *Model) Editor() *title.Editor { return m.editor }

// Settings exposes the settings panel; nil on the title surface.
func (m *Model) Settings() *settings.Panel { return m.settings }

func (m *Model) ctx() context.Context { return context.Background() }

// quit leaves the program. A focused title is blurred first so its rename
// reaches the kernel before exit.
func (m *Model) quit() tea.Cmd {
	if m.editor != nil && m.editor.Focused() {
		if cmd := m.editor.Blur(); cmd != nil {
			m.closing = true
			return cmd
		}
	}
	return tea.Quit
}
