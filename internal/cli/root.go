// Package cli wires the command tree: the title editor as the default
// command, the settings panel, the kernel server and a few scripting
// commands over the kernel API.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicstack/notebook-popup-control/internal/api"
	"github.com/atomicstack/notebook-popup-control/internal/app"
	"github.com/atomicstack/notebook-popup-control/internal/config"
	"github.com/atomicstack/notebook-popup-control/internal/logging"
)

// Options customises New. Zero values fall back to the process defaults.
type Options struct {
	Environ []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	// OnStart runs once the configuration is resolved and logging is set up.
	OnStart func(config.Config)
	// Run starts an interactive surface; app.Run when nil.
	Run func(app.Config) error
}

func (o Options) withDefaults() Options {
	if o.Environ == nil {
		o.Environ = os.Environ()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Run == nil {
		o.Run = app.Run
	}
	return o
}

// runtime is shared by every subcommand. cfg is filled in by the root's
// PersistentPreRunE.
type runtime struct {
	opts   Options
	values *config.Values
	cfg    config.Config
}

// New builds the command tree.
func New(opts Options) *cobra.Command {
	rt := &runtime{opts: opts.withDefaults()}
	cmd := &cobra.Command{
		Use:   "notebook-popup-control [doc-id]",
		Short: "Edit a notebook document title, its attributes and the file tree settings from the terminal.",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.resolve(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.opts.Run(rt.cfg.App)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(rt.opts.Stdin)
	cmd.SetOut(rt.opts.Stdout)
	cmd.SetErr(rt.opts.Stderr)
	rt.values = config.Bind(cmd.PersistentFlags(), rt.opts.Environ)

	addSettings(cmd, rt)
	addKernel(cmd, rt)
	addFiletree(cmd, rt)
	addNotebook(cmd, rt)
	addDoc(cmd, rt)
	return cmd
}

// resolve turns parsed flags into a Config. Positional args only name a
// document on the root command.
func (rt *runtime) resolve(cmd *cobra.Command, args []string) error {
	if cmd.HasParent() {
		args = nil
	}
	cfg, err := rt.values.Config(args)
	if err != nil {
		return err
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	rt.cfg = cfg
	if rt.opts.OnStart != nil {
		rt.opts.OnStart(cfg)
	}
	return nil
}

func (rt *runtime) client() *api.Client {
	return app.Client(rt.cfg.App)
}

func addSettings(topLevel *cobra.Command, rt *runtime) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "settings",
		Short: "Open the file tree settings panel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.cfg.App
			cfg.Settings = true
			return rt.opts.Run(cfg)
		},
	})
}
