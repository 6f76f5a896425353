package menu

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/model"
)

type stubClient struct {
	info      model.DocInfo
	infoErr   error
	attrs     map[string]string
	reminder  string
	removed   []string
	moved     []string
	refs      []model.DocRef
	headings  []model.Heading
	backlinks []model.Backlink
	graph     model.Graph
	err       error
}

func (s *stubClient) DocInfo(ctx context.Context, id string) (model.DocInfo, error) {
	return s.info, s.infoErr
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

const docID = "20240102030405-abcdefg"

func testInfo() model.DocInfo {
	return model.DocInfo{
		ID:   docID,
		Box:  "box1",
		Path: "/parent/" + docID + ".sy",
		IAL:  map[string]string{model.AttrTitle: "Doc"},
	}
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFn
	nowFn = func() time.Time { return now }
	t.Cleanup(func() { nowFn = prev })
}

func itemIDs(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestDocMenuItemsOrder(t *testing.T) {
	ctx := Context{Info: testInfo()}
	got := strings.Join(itemIDs(DocMenuItems(ctx)), ",")
	want := "copy,attr,move,separator-1,reminder,separator-2,delete,separator-3,outline,backlinks,graph,separator-4,timestamps"
	if got != want {
		t.Fatalf("unexpected order:\n got %s\nwant %s", got, want)
	}
}

func TestDocMenuItemsReadOnlyHidesEditing(t *testing.T) {
	ctx := Context{Info: testInfo(), ReadOnly: true}
	for _, item := range DocMenuItems(ctx) {
		if item.ID == "attr" || item.ID == "move" {
			t.Fatalf("read-only menu should not contain %s", item.ID)
		}
	}
}

func TestDocMenuItemKinds(t *testing.T) {
	items := DocMenuItems(Context{Info: testInfo()})
	byID := map[string]Item{}
	for _, item := range items {
		byID[item.ID] = item
	}
	if byID["copy"].Kind != KindSubmenu || byID["move"].Kind != KindSubmenu {
		t.Fatalf("copy and move should be submenus")
	}
	if byID["separator-1"].Selectable() {
		t.Fatalf("separators must not be selectable")
	}
	if byID["timestamps"].Selectable() {
		t.Fatalf("timestamps row must be read-only")
	}
	if !strings.HasPrefix(byID["attr"].Accelerator, "alt+a") {
		t.Fatalf("expected default attr accelerator, got %q", byID["attr"].Accelerator)
	}
}

func TestTimestampsLabel(t *testing.T) {
	withNow(t, time.Date(2024, 1, 2, 5, 4, 5, 0, time.Local))

	info := testInfo()
	info.IAL[model.AttrUpdated] = "20240102040405"
	label := timestampsLabel(Context{Info: info})
	if !strings.Contains(label, "2024-01-02 04:04:05") || !strings.Contains(label, "ago") {
		t.Fatalf("expected modified time with relative suffix, got %q", label)
	}
	if !strings.Contains(label, "Created at 2024-01-02 03:04:05") {
		t.Fatalf("expected created time from id, got %q", label)
	}

	delete(info.IAL, model.AttrUpdated)
	label = timestampsLabel(Context{Info: info})
	if !strings.Contains(label, "Modified at 2024-01-02 03:04:05") {
		t.Fatalf("expected modified to fall back to created, got %q", label)
	}

	label = timestampsLabel(Context{Info: model.DocInfo{ID: "bogus"}})
	if label != "Modified at - / Created at -" {
		t.Fatalf("unexpected label for bad id: %q", label)
	}
}

func TestRegistryResolvesSubmenusAndActions(t *testing.T) {
	reg := BuildRegistry()
	if reg.Root().Loader == nil {
		t.Fatalf("root should load the document menu")
	}
	copyNode, ok := reg.Child("root", "copy")
	if !ok || copyNode.Loader == nil || copyNode.Action == nil {
		t.Fatalf("copy should have loader and action: %#v", copyNode)
	}
	for _, id := range []string{"attr", "reminder", "delete", "outline", "backlinks", "graph"} {
		node, ok := reg.Find(id)
		if !ok || node.Action == nil || node.Loader != nil {
			t.Fatalf("%s should be a plain action", id)
		}
	}
	if _, ok := reg.Find("timestamps"); ok {
		t.Fatalf("timestamps row should not be registered")
	}
}

func TestNewRegistryNestsUnderParent(t *testing.T) {
	noop := func(Context, Item) tea.Cmd { return nil }
	reg := NewRegistry(nil, []Def{
		{ID: "copy", Loader: loadCopyMenu},
		{ID: "ref", Parent: "copy", Action: noop},
		{ID: "orphan", Parent: "missing", Action: noop},
	})
	ref, ok := reg.Child("copy", "ref")
	if !ok || ref.Parent == nil || ref.Parent.ID != "copy" {
		t.Fatalf("expected ref under copy, got %#v", ref)
	}
	if _, ok := reg.Child("root", "orphan"); !ok {
		t.Fatalf("unknown parent should fall back to root")
	}
	if _, ok := reg.Child("nope", "ref"); ok {
		t.Fatalf("unknown parent ID should not resolve")
	}
}

func TestMutatingEntries(t *testing.T) {
	reg := BuildRegistry()
	for id, want := range map[string]bool{"attr": true, "move": true, "reminder": false, "delete": false, "copy": false, "outline": false} {
		node, ok := reg.Find(id)
		if !ok || node.Mutating != want {
			t.Fatalf("%s: expected mutating=%v", id, want)
		}
	}
}

func TestCopyMenuAndAction(t *testing.T) {
	items, err := loadCopyMenu(Context{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(itemIDs(items), ","); got != "ref,embed,protocol,hpath,id" {
		t.Fatalf("unexpected copy items %s", got)
	}
	msg := CopyAction(Context{}, items[1])()
	req, ok := msg.(CopyRequest)
	if !ok || req.Kind != "embed" {
		t.Fatalf("expected embed copy request, got %#v", msg)
	}
}

func TestMoveTargetItemsExcludesSelfDescendantsAndParent(t *testing.T) {
	info := testInfo()
	refs := []model.DocRef{
		{Box: "box1", BoxName: "Notes", Path: "/", HPath: "/"},
		{Box: "box1", BoxName: "Notes", Path: "/parent.sy", HPath: "/Parent"},
		{Box: "box1", BoxName: "Notes", Path: info.Path, HPath: "/Parent/Doc"},
		{Box: "box1", BoxName: "Notes", Path: "/parent/" + docID + "/child.sy", HPath: "/Parent/Doc/Child"},
		{Box: "box1", BoxName: "Notes", Path: "/other.sy", HPath: "/Other"},
		{Box: "box2", BoxName: "Work", Path: "/parent.sy", HPath: "/Parent"},
	}
	items := MoveTargetItems(info, refs)
	got := strings.Join(itemIDs(items), ",")
	if got != "box1/,box1/other.sy,box2/parent.sy" {
		t.Fatalf("unexpected targets %s", got)
	}
	if !strings.HasPrefix(items[2].Label, "Work ") {
		t.Fatalf("expected aligned notebook column, got %q", items[2].Label)
	}
	if len(items[0].Label) != len(items[2].Label) {
		t.Fatalf("expected equal width rows: %q vs %q", items[0].Label, items[2].Label)
	}
}

func TestMoveActionCallsClient(t *testing.T) {
	client := &stubClient{}
	ctx := Context{Client: client, Info: testInfo()}
	msg := MoveAction(ctx, Item{ID: "box2/target.sy", Label: "Work /Target"})()
	res, ok := msg.(ActionResult)
	if !ok || res.Err != nil {
		t.Fatalf("unexpected result %#v", msg)
	}
	if len(client.moved) != 1 || client.moved[0] != testInfo().Path+"->box2/target.sy" {
		t.Fatalf("unexpected move %v", client.moved)
	}
	if res.Info != "Moved Work /Target" {
		t.Fatalf("unexpected info %q", res.Info)
	}

	msg = MoveAction(ctx, Item{ID: "nope"})()
	if res := msg.(ActionResult); res.Err == nil {
		t.Fatalf("expected error for malformed target")
	}
}

func TestPopupGeneration(t *testing.T) {
	var m Menu
	m.Append(Item{ID: "a"})
	m.Popup(Position{X: 3, Y: 4})
	if !m.Visible() || m.Generation() != 1 || m.Position() != (Position{X: 3, Y: 4}) {
		t.Fatalf("unexpected popup state %#v", m)
	}
	m.Remove()
	if m.Visible() || len(m.Items()) != 0 {
		t.Fatalf("remove should hide and clear")
	}
	m.Append(Item{ID: "b"})
	m.Popup(Position{})
	if m.Generation() != 2 {
		t.Fatalf("expected second generation, got %d", m.Generation())
	}
}

func TestDeleteActionFetchesFreshInfo(t *testing.T) {
	fresh := testInfo()
	fresh.SubFileCount = 3
	client := &stubClient{info: fresh}
	msg := DeleteAction(Context{Client: client, Info: testInfo(), Title: "Shown"}, Item{ID: "delete"})()
	prompt, ok := msg.(ConfirmPrompt)
	if !ok {
		t.Fatalf("expected confirm prompt, got %T", msg)
	}
	if prompt.Info.SubFileCount != 3 || prompt.Name != "Shown" {
		t.Fatalf("unexpected prompt %#v", prompt)
	}

	client.infoErr = errors.New("gone")
	if res, ok := DeleteAction(Context{Client: client}, Item{})().(ActionResult); !ok || res.Err == nil {
		t.Fatalf("expected error result")
	}
}

func TestConfirmFormTipAndConfirm(t *testing.T) {
	info := testInfo()
	info.SubFileCount = 2
	client := &stubClient{}
	form := NewConfirmForm(ConfirmPrompt{Context: Context{Client: client}, Info: info, Name: "Doc\x1b[31m"})
	tip := form.Tip()
	if !strings.Contains(tip, "and its 2 sub-docs") {
		t.Fatalf("expected sub-doc count in %q", tip)
	}
	if strings.Contains(tip, "\x1b[31m") {
		t.Fatalf("name should be stripped of escapes: %q", tip)
	}

	cmd, done, cancel := form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil || done || cancel {
		t.Fatalf("unrelated keys should be ignored")
	}
	_, done, cancel = form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if done || !cancel {
		t.Fatalf("esc should cancel")
	}
	cmd, done, _ = form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if !done || cmd == nil {
		t.Fatalf("y should confirm")
	}
	res := cmd().(ActionResult)
	if !res.Close || res.Err != nil {
		t.Fatalf("delete should close on success: %#v", res)
	}
	if len(client.removed) != 1 || client.removed[0] != "box1"+info.Path {
		t.Fatalf("unexpected removal %v", client.removed)
	}
}

func TestAttrFormFocusAndSave(t *testing.T) {
	info := testInfo()
	info.IAL[model.AttrName] = "nm"
	client := &stubClient{}
	form := NewAttrForm(AttrPrompt{Context: Context{Client: client}, Info: info, Focus: model.AttrAlias})
	if form.Focused() != model.AttrAlias {
		t.Fatalf("expected alias focus, got %s", form.Focused())
	}
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("al")})
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.Focused() != model.AttrMemo {
		t.Fatalf("tab should advance to memo, got %s", form.Focused())
	}
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.Focused() != model.AttrBookmark {
		t.Fatalf("tab should wrap to bookmark, got %s", form.Focused())
	}
	cmd, done, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done || cmd == nil {
		t.Fatalf("enter should save")
	}
	if res := cmd().(ActionResult); res.Err != nil {
		t.Fatalf("unexpected error %v", res.Err)
	}
	if client.attrs[model.AttrName] != "nm" || client.attrs[model.AttrAlias] != "al" || client.attrs[model.AttrMemo] != "" {
		t.Fatalf("unexpected attrs %#v", client.attrs)
	}
}

func TestParseReminder(t *testing.T) {
	got, err := ParseReminder("  ")
	if err != nil || got != "0" {
		t.Fatalf("empty should clear, got %q %v", got, err)
	}
	got, err = ParseReminder("2024-05-06 07:08")
	if err != nil || got != "20240506070800" {
		t.Fatalf("unexpected stamp %q %v", got, err)
	}
	if _, err := ParseReminder("tomorrow"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestReminderFormPrefillAndSubmit(t *testing.T) {
	info := testInfo()
	info.IAL[model.AttrReminder] = "20240102030400"
	client := &stubClient{}
	form := NewReminderForm(ReminderPrompt{Context: Context{Client: client}, Info: info})
	if !strings.Contains(form.InputView(), "2024-01-02 03:04") {
		t.Fatalf("expected prefilled value, got %q", form.InputView())
	}
	cmd, done, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !done || cmd == nil {
		t.Fatalf("enter should submit")
	}
	res := cmd().(ActionResult)
	if res.Err != nil {
		t.Fatalf("unexpected result %#v", res)
	}
	if client.reminder != "20240102030400" {
		t.Fatalf("unexpected reminder %q", client.reminder)
	}
}

func TestReminderFormRejectsBadInput(t *testing.T) {
	form := NewReminderForm(ReminderPrompt{Context: Context{Client: &stubClient{}}, Info: testInfo()})
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("soon")})
	cmd, done, cancel := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || done || cancel {
		t.Fatalf("invalid input should keep the form open")
	}
	if form.Error() == "" {
		t.Fatalf("expected validation error")
	}
}

func TestPanelLines(t *testing.T) {
	lines := BacklinkLines([]model.Backlink{
		{HPath: "/A", Content: "one"},
		{HPath: "/A", Content: "two"},
		{HPath: "/B", Content: "three"},
	})
	want := []string{"/A", "  one", "  two", "", "/B", "  three"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected backlinks %q", lines)
	}

	graph := GraphLines(model.Graph{
		Nodes: []model.GraphNode{{ID: "a", Label: "A", RefCount: 1}},
		Links: []model.GraphLink{{From: "b", To: "a", Count: 2}},
	})
	if graph[0] != "● A (1)" || graph[2] != "b → A ×2" {
		t.Fatalf("unexpected graph lines %q", graph)
	}
}

func TestPanelActionsReportErrors(t *testing.T) {
	client := &stubClient{err: errors.New("boom")}
	ctx := Context{Client: client, Info: testInfo()}
	for _, action := range []Action{OutlineAction, BacklinksAction, GraphAction} {
		msg, ok := action(ctx, Item{Label: "x"})().(PanelMsg)
		if !ok || msg.Err == nil {
			t.Fatalf("expected panel error, got %#v", msg)
		}
	}
}
