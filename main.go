package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atomicstack/notebook-popup-control/internal/cli"
	"github.com/atomicstack/notebook-popup-control/internal/config"
	"github.com/atomicstack/notebook-popup-control/internal/logging"
	"github.com/atomicstack/notebook-popup-control/internal/logging/events"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	cmd := cli.New(cli.Options{OnStart: traceStartup})
	if err := cmd.Execute(); err != nil {
		logging.Error(err)
		events.App.Exit(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload records what the process was started with: flags,
// which surface and document it targets, and the terminal it runs in.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	surface := "title"
	if cfg.App.Settings {
		surface = "settings"
	}
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  cfg,
		"surface": surface,
		"kernel":  cfg.App.KernelURL,
		"doc":     cfg.App.DocID,
		"tty":     collectTTYDetails(),
	}
	record := func(key string, value string, err error) {
		if err != nil {
			payload[key+"Error"] = err.Error()
			return
		}
		payload[key] = value
	}
	exe, err := os.Executable()
	record("executable", exe, err)
	cwd, err := os.Getwd()
	record("cwd", cwd, err)
	return payload
}

type ttyDetails struct {
	Detected *ttyProbeResult  `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails probes stdin, stdout and stderr in that order. The first
// terminal that reports a size is the detected one.
func collectTTYDetails() ttyDetails {
	var out ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		probe := probeTTY(f)
		out.Probes = append(out.Probes, probe)
		if out.Detected == nil && probe.IsTerminal && probe.Error == "" {
			detected := probe
			out.Detected = &detected
		}
	}
	return out
}

func probeTTY(f *os.File) ttyProbeResult {
	name := strings.TrimPrefix(f.Name(), "/dev/")
	probe := ttyProbeResult{Name: name}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return probe
	}
	probe.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Width, probe.Height = width, height
	return probe
}
