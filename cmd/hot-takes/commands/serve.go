package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bristermitten/hot-takes/internal/common/config"
	"github.com/bristermitten/hot-takes/internal/common/observability"
	"github.com/bristermitten/hot-takes/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve takes over HTTP",
		Long: `Serve GET /take?extra=... next to /health, /ready and /metrics.

Stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			gen, store, err := e.openGenerator(cmd)
			if err != nil {
				return err
			}

			if addr != "" {
				e.cfg.Server.Address = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs := observability.New(e.cfg.App.Name, nil, e.log)
			defer func() { _ = obs.Shutdown(context.Background()) }()

			srv := server.New(server.Options{
				Address:       e.cfg.Server.Address,
				ReadTimeout:   config.GetDuration(e.cfg.Server.ReadTimeout),
				Generator:     gen,
				Store:         store,
				Logger:        e.log,
				Observability: obs,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.address")
	return cmd
}
