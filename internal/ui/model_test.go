package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/model"
)

const testDocID = "20200102030405-abcdefg"

type stubClient struct {
	info      model.DocInfo
	infoCalls int
	infoErr   error
	renamed   []string
	blocks    []model.Block
	attrs     map[string]string
	reminder  string
	removed   []string
	moved     []string
	refs      []model.DocRef
	headings  []model.Heading
	backlinks []model.Backlink
	graph     model.Graph
	filetrees []conf.FileTree
	err       error
}

func newStub() *stubClient {
	return &stubClient{info: model.DocInfo{
		ID:     testDocID,
		RootID: testDocID,
		Box:    "box1",
		Path:   "/" + testDocID + ".sy",
		IAL: map[string]string{
			model.AttrTitle:   "Doc",
			model.AttrUpdated: "20200102030405",
		},
	}}
}

func (s *stubClient) DocInfo(ctx context.Context, id string) (model.DocInfo, error) {
	s.infoCalls++
	return s.info, s.infoErr
}

func (s *stubClient) RenameDoc(ctx context.Context, notebook, path, title string) error {
	s.renamed = append(s.renamed, notebook+path+"="+title)
	return s.err
}

func (s *stubClient) HPathByID(ctx context.Context, id string) (string, error) {
	return "/Doc", s.err
}

func (s *stubClient) DocBlocks(ctx context.Context, id string) ([]model.Block, error) {
	return s.blocks, s.err
}

func (s *stubClient) SetBlockAttrs(ctx context.Context, id string, attrs map[string]string) error {
	s.attrs = attrs
	return s.err
}

func (s *stubClient) SetBlockReminder(ctx context.Context, id, timed string) error {
	s.reminder = timed
	return s.err
}

func (s *stubClient) RemoveDoc(ctx context.Context, notebook, path string) error {
	s.removed = append(s.removed, notebook+path)
	return s.err
}

func (s *stubClient) MoveDocs(ctx context.Context, fromPaths []string, toNotebook, toPath string) error {
	s.moved = append(s.moved, strings.Join(fromPaths, ",")+"->"+toNotebook+toPath)
	return s.err
}

func (s *stubClient) SearchDocs(ctx context.Context, keyword string) ([]model.DocRef, error) {
	return s.refs, s.err
}

func (s *stubClient) Outline(ctx context.Context, id string) ([]model.Heading, error) {
	return s.headings, s.err
}

func (s *stubClient) Backlinks(ctx context.Context, id string) ([]model.Backlink, error) {
	return s.backlinks, s.err
}

func (s *stubClient) LocalGraph(ctx context.Context, id string) (model.Graph, error) {
	return s.graph, s.err
}

func (s *stubClient) SetFiletree(ctx context.Context, ft conf.FileTree) (*conf.FileTree, error) {
	s.filetrees = append(s.filetrees, ft)
	if s.err != nil {
		return nil, s.err
	}
	ft.Normalize()
	return &ft, nil
}

// newTitleHarness returns a harness whose title has been rendered and
// focused the way the program starts.
func newTitleHarness(t *testing.T, stub *stubClient, c *conf.Conf) *Harness {
	t.Helper()
	m := NewModel(Options{Surface: SurfaceTitle, DocID: testDocID, Client: stub, Conf: c, Width: 60, Height: 20})
	h := NewHarness(m)
	h.Run(m.Init())
	return h
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "alt+a":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModeString(t *testing.T) {
	cases := map[Mode]string{
		ModeTitle:    "title",
		ModeBody:     "body",
		ModeMenu:     "menu",
		ModeAttrForm: "attr",
		ModeConfirm:  "confirm",
		ModeReminder: "reminder",
		ModeSettings: "settings",
		ModePanel:    "panel",
		Mode(99):     "unknown",
	}
	for mode, want := range cases {
		if got := mode.String(); got != want {
			t.Fatalf("mode %d: expected %q, got %q", int(mode), want, got)
		}
	}
}

func TestNewModelPicksSurface(t *testing.T) {
	title := NewModel(Options{DocID: testDocID, Client: newStub()})
	if title.Mode() != ModeTitle || title.Editor() == nil || title.Settings() != nil {
		t.Fatalf("expected title surface, got mode %s", title.Mode())
	}
	settings := NewModel(Options{Surface: SurfaceSettings, Client: newStub()})
	if settings.Mode() != ModeSettings || settings.Settings() == nil || settings.Editor() != nil {
		t.Fatalf("expected settings surface, got mode %s", settings.Mode())
	}
}

func TestInitRendersAndFocusesTitle(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	ed := h.Model().Editor()
	if ed.Value() != "Doc" {
		t.Fatalf("expected title Doc, got %q", ed.Value())
	}
	if !ed.Focused() {
		t.Fatalf("expected title to start focused")
	}
	if stub.infoCalls != 1 {
		t.Fatalf("expected one doc info fetch, got %d", stub.infoCalls)
	}
}

func TestQuitWhileFocusedRenamesFirst(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	h.Send(key("!"))
	h.Send(key("ctrl+c"))
	if !h.Quit() {
		t.Fatalf("expected program to quit")
	}
	want := "box1/" + testDocID + ".sy=Doc!"
	if len(stub.renamed) != 1 || stub.renamed[0] != want {
		t.Fatalf("expected rename %q before quitting, got %v", want, stub.renamed)
	}
}

func TestQuitFromUnfocusedTitle(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	h.Send(key("esc"))
	if h.Model().Editor().Focused() {
		t.Fatalf("expected esc to blur the title")
	}
	if h.Quit() {
		t.Fatalf("blur must not quit")
	}
	h.Send(key("q"))
	if !h.Quit() {
		t.Fatalf("expected q to quit")
	}
	if len(stub.renamed) != 1 {
		t.Fatalf("expected only the blur rename, got %v", stub.renamed)
	}
}

func TestInvalidTitleReportsErrorWithoutRename(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	h.Send(key("/"))
	h.Send(key("esc"))
	if len(stub.renamed) != 0 {
		t.Fatalf("expected no rename for invalid title, got %v", stub.renamed)
	}
	if h.Model().errMsg == "" {
		t.Fatalf("expected error to be shown")
	}
	if strings.Contains(h.Model().Editor().Value(), "/") {
		t.Fatalf("expected title to be sanitized, got %q", h.Model().Editor().Value())
	}
}

func TestRenameErrorIsShown(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	stub.err = errors.New("boom")
	h.Send(key("esc"))
	if !strings.Contains(h.Model().errMsg, "boom") {
		t.Fatalf("expected rename error, got %q", h.Model().errMsg)
	}
}

func docEvent(updated string) backendEventMsg {
	info := newStub().info
	info.IAL = map[string]string{model.AttrTitle: "Doc", model.AttrUpdated: updated}
	return backendEventMsg{event: backend.Event{Kind: backend.KindDoc, Data: info}}
}

func TestDocChangeSkippedWhileEditing(t *testing.T) {
	stub := newStub()
	h := newTitleHarness(t, stub, nil)
	h.Send(docEvent("20200102030405"))
	h.Send(docEvent("20200102030406"))
	if stub.infoCalls != 1 {
		t.Fatalf("expected no re-render while focused, got %d fetches", stub.infoCalls)
	}

	h.Send(key("esc"))
	stub.info.IAL = map[string]string{model.AttrTitle: "Renamed elsewhere"}
	h.Send(docEvent("20200102030407"))
	if stub.infoCalls != 2 {
		t.Fatalf("expected re-render after change, got %d fetches", stub.infoCalls)
	}
	if got := h.Model().Editor().Value(); got != "Renamed elsewhere" {
		t.Fatalf("expected refreshed title, got %q", got)
	}
}

func TestBackendErrorShowsInStatus(t *testing.T) {
	h := newTitleHarness(t, newStub(), nil)
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindConf, Err: errors.New("offline")}})
	if !strings.Contains(h.View(), "Backend: offline") {
		t.Fatalf("expected backend warning in view:\n%s", h.View())
	}
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindConf, Data: conf.NewConf()}})
	if strings.Contains(h.View(), "Backend:") {
		t.Fatalf("expected warning to clear:\n%s", h.View())
	}
}

func TestSettingsSurfaceSendsToggle(t *testing.T) {
	stub := newStub()
	m := NewModel(Options{Surface: SurfaceSettings, Client: stub, Conf: conf.NewConf()})
	h := NewHarness(m)
	h.Run(m.Init())

	h.Send(key(" "))
	if len(stub.filetrees) != 1 || !stub.filetrees[0].AlwaysSelectOpenedFile {
		t.Fatalf("expected toggle to be sent, got %+v", stub.filetrees)
	}
	if got := h.Model().currentInfo(); got != "Settings saved" {
		t.Fatalf("expected saved info, got %q", got)
	}
	h.Send(key("esc"))
	if !h.Quit() {
		t.Fatalf("expected esc to quit the settings surface")
	}
}

func TestSettingsEscFlushesEditedField(t *testing.T) {
	stub := newStub()
	m := NewModel(Options{Surface: SurfaceSettings, Client: stub, Conf: conf.NewConf()})
	h := NewHarness(m)
	h.Run(m.Init())

	for i := 0; i < 3; i++ {
		h.Send(key("down"))
	}
	h.Send(key("x"))
	if len(stub.filetrees) != 0 {
		t.Fatalf("typing must not send, got %+v", stub.filetrees)
	}
	h.Send(key("esc"))
	if len(stub.filetrees) != 1 || stub.filetrees[0].CreateDocNameTemplate != "x" {
		t.Fatalf("expected pending edit to be flushed, got %+v", stub.filetrees)
	}
	if !h.Quit() {
		t.Fatalf("expected quit after flush")
	}
}

func TestSettingsFollowsKernelChanges(t *testing.T) {
	m := NewModel(Options{Surface: SurfaceSettings, Client: newStub(), Conf: conf.NewConf()})
	h := NewHarness(m)
	h.Run(m.Init())

	next := conf.NewConf()
	next.FileTree.AllowCreateDeeper = true
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindConf, Data: next}})
	if !h.Model().Settings().FileTree().AllowCreateDeeper {
		t.Fatalf("expected panel to reflect the kernel configuration")
	}
}
