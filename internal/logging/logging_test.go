package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withLogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := withLogFile(t)
	SetTraceEnabled(true)
	Trace("title.render", map[string]interface{}{"id": "x"})

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatalf("expected a trace line")
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.Event != "title.render" || entry.Payload["id"] != "x" {
		t.Fatalf("unexpected entry %#v", entry)
	}
}

func TestTraceDisabledWritesNothing(t *testing.T) {
	path := withLogFile(t)
	SetTraceEnabled(false)
	Trace("ignored", nil)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no log file, got %v", err)
	}
}

func TestErrorAndSlogAppend(t *testing.T) {
	path := withLogFile(t)
	Error(errors.New("boom"))
	Error(nil)
	Slog(slog.LevelInfo).Info("request", "path", "/api/x")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "boom") || !strings.Contains(text, `"path":"/api/x"`) {
		t.Fatalf("unexpected log contents: %s", text)
	}
}
