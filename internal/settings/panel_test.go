package settings

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/conf"
)

type stubClient struct {
	sent  []conf.FileTree
	reply func(conf.FileTree) (*conf.FileTree, error)
}

func (s *stubClient) SetFiletree(ctx context.Context, ft conf.FileTree) (*conf.FileTree, error) {
	s.sent = append(s.sent, ft)
	if s.reply != nil {
		return s.reply(ft)
	}
	canonical := ft
	canonical.Normalize()
	return &canonical, nil
}

func newBoundPanel(t *testing.T, ft *conf.FileTree, client *stubClient) *Panel {
	t.Helper()
	p := New(ft, client, nil, nil)
	p.BindEvent()
	return p
}

// apply runs cmd and feeds a resulting FiletreeChangedMsg back to the panel.
func apply(t *testing.T, p *Panel, cmd tea.Cmd) FiletreeChangedMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	for _, msg := range flatten(cmd) {
		if changed, ok := msg.(FiletreeChangedMsg); ok {
			p.Update(changed)
			return changed
		}
	}
	t.Fatal("no FiletreeChangedMsg produced")
	return FiletreeChangedMsg{}
}

func flatten(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, flatten(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewBeforeBindShowsConfiguration(t *testing.T) {
	ft := conf.NewFileTree()
	ft.AllowCreateDeeper = true
	ft.RefCreateSavePath = "/inbox/"
	p := New(ft, &stubClient{}, nil, nil)
	view := p.View(0)
	for _, want := range []string{
		"Always select opened document",
		"Allow creating deeper documents",
		"[x]",
		"[/inbox/]",
		"[512]",
		"Documents listed per folder",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewIsPure(t *testing.T) {
	client := &stubClient{}
	p := New(conf.NewFileTree(), client, nil, nil)
	first := p.View(80)
	if second := p.View(80); first != second {
		t.Fatal("view should be stable")
	}
	if len(client.sent) != 0 || p.Bound() {
		t.Fatal("view must not send or bind")
	}
}

func TestBindEventPopulatesInputs(t *testing.T) {
	ft := conf.NewFileTree()
	ft.CreateDocNameTemplate = "{{now}}"
	ft.MaxListCount = 64
	p := newBoundPanel(t, ft, &stubClient{})
	if got := p.fields[3].input.Value(); got != "{{now}}" {
		t.Fatalf("template input = %q", got)
	}
	if got := p.fields[5].input.Value(); got != "64" {
		t.Fatalf("max list input = %q", got)
	}
	if p.Focused() != FieldAlwaysSelectOpenedFile {
		t.Fatalf("expected first field focused, got %s", p.Focused())
	}
}

func TestToggleSendsFullPayload(t *testing.T) {
	client := &stubClient{}
	ft := conf.NewFileTree()
	ft.Sort = conf.SortModeUpdatedDESC
	p := newBoundPanel(t, ft, client)
	p.Update(press("down"))
	changed := apply(t, p, p.Update(press("space")))
	if changed.Err != nil {
		t.Fatalf("unexpected error %v", changed.Err)
	}
	if len(client.sent) != 1 {
		t.Fatalf("expected one send, got %d", len(client.sent))
	}
	sent := client.sent[0]
	if !sent.OpenFilesUseCurrentTab || sent.AlwaysSelectOpenedFile {
		t.Fatalf("unexpected toggles %+v", sent)
	}
	if sent.Sort != conf.SortModeUpdatedDESC || sent.MaxListCount != conf.DefaultMaxListCount {
		t.Fatalf("payload lost fields %+v", sent)
	}
	if !p.FileTree().OpenFilesUseCurrentTab {
		t.Fatal("configuration should be replaced by the kernel copy")
	}
}

func TestNumberCommitParsesAndAdoptsCanonicalCopy(t *testing.T) {
	client := &stubClient{}
	p := newBoundPanel(t, conf.NewFileTree(), client)
	for i := 0; i < 5; i++ {
		p.Update(press("down"))
	}
	if p.Focused() != FieldMaxListCount {
		t.Fatalf("expected maxListCount focused, got %s", p.Focused())
	}
	for i := 0; i < 3; i++ {
		p.Update(press("backspace"))
	}
	p.Update(press("abc"))
	apply(t, p, p.Update(press("enter")))
	if got := client.sent[0].MaxListCount; got != 0 {
		t.Fatalf("non-numeric input should parse to 0, got %d", got)
	}
	if got := p.FileTree().MaxListCount; got != conf.MaxListCountMin {
		t.Fatalf("expected clamped value %d, got %d", conf.MaxListCountMin, got)
	}
	if got := p.fields[5].input.Value(); got != "1" {
		t.Fatalf("input should show canonical value, got %q", got)
	}
}

func TestSendKeepsMaxListCountBounds(t *testing.T) {
	cases := []struct {
		in   string
		sent int
		want int
	}{
		{in: "1", sent: 1, want: 1},
		{in: "10240", sent: 10240, want: 10240},
		{in: "10241", sent: 10241, want: conf.MaxListCountMax},
		{in: "0", sent: 0, want: conf.MaxListCountMin},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			client := &stubClient{}
			p := newBoundPanel(t, conf.NewFileTree(), client)
			p.fields[5].input.SetValue(tc.in)
			apply(t, p, p.Send())
			if got := client.sent[0].MaxListCount; got != tc.sent {
				t.Fatalf("expected %d sent, got %d", tc.sent, got)
			}
			if got := p.FileTree().MaxListCount; got != tc.want {
				t.Fatalf("expected %d adopted, got %d", tc.want, got)
			}
		})
	}
}

func TestTextCommitOnBlur(t *testing.T) {
	client := &stubClient{}
	p := newBoundPanel(t, conf.NewFileTree(), client)
	for i := 0; i < 4; i++ {
		p.Update(press("down"))
	}
	if p.Focused() != FieldRefCreateSavePath {
		t.Fatalf("expected refCreateSavePath focused, got %s", p.Focused())
	}
	if cmd := p.Update(press("down")); cmd != nil {
		for _, msg := range flatten(cmd) {
			if _, ok := msg.(FiletreeChangedMsg); ok {
				t.Fatal("unmodified field must not send on blur")
			}
		}
	}
	p.Update(press("up"))
	p.Update(press("refs"))
	apply(t, p, p.Update(press("down")))
	if got := client.sent[0].RefCreateSavePath; got != "refs" {
		t.Fatalf("expected raw value sent, got %q", got)
	}
	if got := p.FileTree().RefCreateSavePath; got != "refs/" {
		t.Fatalf("expected canonical save path, got %q", got)
	}
}

func TestSendFailureKeepsDisplayedValues(t *testing.T) {
	client := &stubClient{reply: func(conf.FileTree) (*conf.FileTree, error) {
		return nil, errors.New("offline")
	}}
	p := newBoundPanel(t, conf.NewFileTree(), client)
	changed := apply(t, p, p.Update(press("enter")))
	if changed.Err == nil {
		t.Fatal("expected error")
	}
	if !p.fields[0].checked {
		t.Fatal("displayed toggle should not roll back")
	}
	if p.FileTree().AlwaysSelectOpenedFile {
		t.Fatal("configuration should not change on failure")
	}
}

func TestKeysIgnoredBeforeBind(t *testing.T) {
	client := &stubClient{}
	p := New(conf.NewFileTree(), client, nil, nil)
	if cmd := p.Update(press("space")); cmd != nil {
		t.Fatal("unbound panel should ignore keys")
	}
}

func TestParseInt(t *testing.T) {
	cases := map[string]int{
		"42":     42,
		"  17px": 17,
		"-3":     -3,
		"+8":     8,
		"abc":    0,
		"":       0,
		"3.9":    3,
		"0x10":   16,
		"0XfF":   255,
		"-0x1f":  -31,
		"0x":     0,
		"0xg":    0,
		"12ab":   12,
	}
	for in, want := range cases {
		if got := ParseInt(in); got != want {
			t.Errorf("ParseInt(%q) = %d, want %d", in, got, want)
		}
	}
	if got := ParseInt(strings.Repeat("9", 40)); got != 1<<31 {
		t.Errorf("overflow should cap, got %d", got)
	}
}
