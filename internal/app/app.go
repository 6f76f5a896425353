package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/notebook-popup-control/internal/api"
	"github.com/atomicstack/notebook-popup-control/internal/backend"
	"github.com/atomicstack/notebook-popup-control/internal/conf"
	"github.com/atomicstack/notebook-popup-control/internal/theme"
	"github.com/atomicstack/notebook-popup-control/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	KernelURL  string
	DocID      string
	Settings   bool
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Poll       time.Duration
	Timeout    time.Duration
	Keymap     conf.Keymap
	Lang       conf.Languages
}

// ErrNoDocument is returned when the title editor is started without a
// document ID.
var ErrNoDocument = errors.New("no document ID given")

// Client returns a kernel client for cfg.
func Client(cfg Config) *api.Client {
	return api.New(cfg.KernelURL, api.WithTimeout(cfg.Timeout))
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	if !cfg.Settings && cfg.DocID == "" {
		return ErrNoDocument
	}
	client := Client(cfg)
	current, err := client.GetConf(context.Background())
	if err != nil {
		return fmt.Errorf("load kernel conf: %w", err)
	}
	theme.ApplyColorProfile()

	surface := ui.SurfaceTitle
	docID := cfg.DocID
	if cfg.Settings {
		surface = ui.SurfaceSettings
		docID = ""
	}
	watcher := backend.NewWatcher(client, docID, cfg.Poll)
	defer watcher.Stop()
	model := ui.NewModel(ui.Options{
		Surface:    surface,
		DocID:      docID,
		Client:     client,
		Conf:       current,
		Keymap:     cfg.Keymap,
		Lang:       cfg.Lang,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Watcher:    watcher,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
