package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/notebook-popup-control/internal/app"
	"github.com/atomicstack/notebook-popup-control/internal/config"
	"github.com/atomicstack/notebook-popup-control/internal/model"
	"github.com/atomicstack/notebook-popup-control/internal/testutil"
)

type result struct {
	out     string
	runs    []app.Config
	started []config.Config
}

// execute runs the command tree against kernelURL without touching the
// process environment or the user's config file.
func execute(t *testing.T, kernelURL, stdin string, args ...string) (result, error) {
	t.Helper()
	var out bytes.Buffer
	res := result{}
	cmd := New(Options{
		Environ: []string{
			"NOTEBOOK_POPUP_CONFIG=",
			"NOTEBOOK_POPUP_LOG_FILE=" + filepath.Join(t.TempDir(), "test.log"),
			"NOTEBOOK_POPUP_KERNEL=" + kernelURL,
		},
		Stdin:   strings.NewReader(stdin),
		Stdout:  &out,
		Stderr:  &out,
		OnStart: func(cfg config.Config) { res.started = append(res.started, cfg) },
		Run: func(cfg app.Config) error {
			res.runs = append(res.runs, cfg)
			return nil
		},
	})
	cmd.SetArgs(args)
	err := cmd.Execute()
	res.out = out.String()
	return res, err
}

func TestRootRunsTitleEditor(t *testing.T) {
	res, err := execute(t, "http://127.0.0.1:1", "", "20200102030405-abcdefg", "--width", "70")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.runs) != 1 {
		t.Fatalf("expected one run, got %d", len(res.runs))
	}
	got := res.runs[0]
	if got.DocID != "20200102030405-abcdefg" || got.Settings || got.Width != 70 {
		t.Fatalf("unexpected app config %+v", got)
	}
	if len(res.started) != 1 {
		t.Fatalf("expected start hook to run once")
	}
}

func TestSettingsRunsSettingsSurface(t *testing.T) {
	res, err := execute(t, "http://127.0.0.1:1", "", "settings")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(res.runs) != 1 || !res.runs[0].Settings {
		t.Fatalf("expected settings surface, got %+v", res.runs)
	}
}

func TestInvalidFlagValueFails(t *testing.T) {
	if _, err := execute(t, "http://127.0.0.1:1", "", "--height", "-1"); err == nil {
		t.Fatalf("expected negative height to be rejected")
	}
}

func TestFiletreeShowAndSet(t *testing.T) {
	k := testutil.NewKernel(t)
	res, err := execute(t, k.URL(), "", "filetree", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(res.out, "maxListCount") || !strings.Contains(res.out, "512") {
		t.Fatalf("unexpected show output:\n%s", res.out)
	}

	res, err = execute(t, k.URL(), "", "filetree", "set", "--max-list-count", "99999", "--ref-create-save-path", "/inbox")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !strings.Contains(res.out, "10240") || !strings.Contains(res.out, "/inbox/") {
		t.Fatalf("expected canonical values in output:\n%s", res.out)
	}
	stored, err := k.Store.Conf(context.Background())
	if err != nil {
		t.Fatalf("Conf: %v", err)
	}
	if stored.FileTree.MaxListCount != 10240 || stored.FileTree.RefCreateSavePath != "/inbox/" {
		t.Fatalf("unexpected stored file tree %+v", stored.FileTree)
	}
	if len(res.runs) != 0 {
		t.Fatalf("scripting commands must not start the UI")
	}
}

func TestNotebookCreateAndList(t *testing.T) {
	k := testutil.NewKernel(t)
	res, err := execute(t, k.URL(), "", "notebook", "create", "Journal")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := strings.TrimSpace(res.out)
	if id == "" {
		t.Fatalf("expected notebook ID")
	}
	res, err = execute(t, k.URL(), "", "notebook", "ls")
	if err != nil {
		t.Fatalf("ls: %v", err)
	}
	if !strings.Contains(res.out, id) || !strings.Contains(res.out, "Journal") {
		t.Fatalf("expected notebook in listing:\n%s", res.out)
	}
}

func TestDocCreateFromStdin(t *testing.T) {
	k := testutil.NewKernel(t)
	k.Notebook(t, "Notes")
	res, err := execute(t, k.URL(), "# Heading\n\nbody text\n", "doc", "create", "Draft", "--md", "-")
	if err != nil {
		t.Fatalf("doc create: %v", err)
	}
	id := strings.TrimSpace(res.out)
	blocks, err := k.Store.DocBlocks(context.Background(), id)
	if err != nil {
		t.Fatalf("DocBlocks(%q): %v", id, err)
	}
	var contents []string
	for _, b := range blocks {
		contents = append(contents, b.Content)
	}
	if joined := strings.Join(contents, "|"); !strings.Contains(joined, "Heading") || !strings.Contains(joined, "body text") {
		t.Fatalf("expected imported blocks, got %q", joined)
	}
}

func TestPickNotebook(t *testing.T) {
	notebooks := []model.Notebook{{ID: "b1", Name: "Notes"}, {ID: "b2", Name: "Work"}}
	cases := []struct {
		want    string
		id      string
		wantErr bool
	}{
		{want: "b2", id: "b2"},
		{want: "work", id: "b2"},
		{want: "", wantErr: true},
		{want: "missing", wantErr: true},
	}
	for _, tc := range cases {
		id, err := pickNotebook(notebooks, tc.want)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("pickNotebook(%q): expected error", tc.want)
			}
			continue
		}
		if err != nil || id != tc.id {
			t.Fatalf("pickNotebook(%q) = %q, %v; want %q", tc.want, id, err, tc.id)
		}
	}
	if id, err := pickNotebook(notebooks[:1], ""); err != nil || id != "b1" {
		t.Fatalf("expected the only notebook, got %q, %v", id, err)
	}
}
