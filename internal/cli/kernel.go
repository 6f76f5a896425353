package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atomicstack/notebook-popup-control/internal/config"
	"github.com/atomicstack/notebook-popup-control/internal/kernel"
	"github.com/atomicstack/notebook-popup-control/internal/logging"
)

func addKernel(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "kernel",
		Short: "Run and inspect the local kernel.",
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the kernel API backed by a sqlite database.",
		Example: `
notebook-popup-control kernel serve --addr 127.0.0.1:6806 --db ~/notes/kernel.db
`,
		Args: cobra.NoArgs,
	}
	values := config.BindServe(serve.Flags(), rt.opts.Environ)
	serve.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := values.Serve()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runKernel(ctx, s, cmd)
	}
	cmd.AddCommand(serve)
	topLevel.AddCommand(cmd)
}

func runKernel(ctx context.Context, s config.Serve, cmd *cobra.Command) error {
	store, err := kernel.Open(s.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	srv := kernel.NewServer(store, logging.Slog(slog.LevelInfo), s.Origins)
	fmt.Fprintf(cmd.OutOrStdout(), "kernel listening on %s (db %s)\n", s.Addr, s.DBPath)
	return srv.ListenAndServe(ctx, s.Addr)
}
