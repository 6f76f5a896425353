package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// noFile keeps tests away from the user's config file.
var noFile = []string{envConfigFile + "="}

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, noFile)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.KernelURL != DefaultKernelURL {
		t.Fatalf("expected default kernel, got %q", cfg.App.KernelURL)
	}
	if cfg.App.Poll != 1500*time.Millisecond || cfg.App.Timeout != 10*time.Second {
		t.Fatalf("unexpected durations poll=%s timeout=%s", cfg.App.Poll, cfg.App.Timeout)
	}
	if cfg.App.Lang.Get("untitled") != "Untitled" {
		t.Fatalf("expected default languages")
	}
}

func TestLoadArgsFlagsOverrideEnv(t *testing.T) {
	env := append([]string{
		envKernelURL + "=http://env.example:1",
		envWidth + "=40",
		envVerbose + "=true",
		envDocID + "=env-doc",
	}, noFile...)
	cfg, err := LoadArgs([]string{"--kernel", "http://flag.example:2/", "--width", "90"}, env)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.KernelURL != "http://flag.example:2" {
		t.Fatalf("expected flag kernel without trailing slash, got %q", cfg.App.KernelURL)
	}
	if cfg.App.Width != 90 || !cfg.App.Verbose || cfg.App.DocID != "env-doc" {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if cfg.Flags["width"] != "90" {
		t.Fatalf("expected width flag recorded, got %q", cfg.Flags["width"])
	}
}

func TestPositionalDocID(t *testing.T) {
	cfg, err := LoadArgs([]string{"20200102030405-abcdefg"}, noFile)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.DocID != "20200102030405-abcdefg" {
		t.Fatalf("expected positional doc ID, got %q", cfg.App.DocID)
	}
}

func TestLoadArgsRejectsInvalidValues(t *testing.T) {
	cases := [][]string{
		{"--width", "-1"},
		{"--height", "-5"},
		{"--poll", "10ms"},
		{"--kernel", "not a url"},
		{"--unknown"},
	}
	for _, args := range cases {
		if _, err := LoadArgs(args, noFile); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestConfigFileSuppliesKernelAndKeymap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "kernel: http://file.example:3\nkeymap:\n  attr: [\"ctrl+t\"]\nlang:\n  untitled: Sans titre\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadArgs([]string{"--config", path}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.KernelURL != "http://file.example:3" {
		t.Fatalf("expected kernel from file, got %q", cfg.App.KernelURL)
	}
	if len(cfg.App.Keymap.Attr) != 1 || cfg.App.Keymap.Attr[0] != "ctrl+t" {
		t.Fatalf("expected keymap override, got %v", cfg.App.Keymap.Attr)
	}
	if cfg.App.Lang.Get("untitled") != "Sans titre" || cfg.App.Lang.Get("copy") != "Copy" {
		t.Fatalf("expected language override merged over defaults")
	}
}

func TestExplicitMissingConfigFileFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := LoadArgs([]string{"--config", missing}, nil); err == nil {
		t.Fatalf("expected error for explicit missing config")
	}
	if _, err := ReadFile(missing, false); err != nil {
		t.Fatalf("implicit missing config should be ignored: %v", err)
	}
}

func TestMalformedConfigFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("keymap: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := ReadFile(path, true); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestMergeEnvFileKeepsProcessValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(envWidth+"=33\n"+envHeight+"=12\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	environ, err := MergeEnvFile([]string{envWidth + "=50"}, path)
	if err != nil {
		t.Fatalf("MergeEnvFile: %v", err)
	}
	cfg, err := LoadArgs(nil, append(environ, noFile...))
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.App.Width != 50 || cfg.App.Height != 12 {
		t.Fatalf("expected width 50 from process and height 12 from file, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
}

func TestBindServe(t *testing.T) {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	values := BindServe(fs, []string{envOrigins + "=http://a, http://b", envDB + "=/tmp/k.db"})
	if err := fs.Parse([]string{"--addr", ":7000"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s, err := values.Serve()
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if s.Addr != ":7000" || s.DBPath != "/tmp/k.db" {
		t.Fatalf("unexpected serve config %+v", s)
	}
	if len(s.Origins) != 2 || s.Origins[1] != "http://b" {
		t.Fatalf("unexpected origins %v", s.Origins)
	}
}

func TestBindServeRequiresAddr(t *testing.T) {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	values := BindServe(fs, nil)
	if err := fs.Parse([]string{"--addr", " "}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := values.Serve(); err == nil {
		t.Fatalf("expected empty addr to be rejected")
	}
}
