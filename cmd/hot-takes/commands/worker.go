package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bristermitten/hot-takes/internal/common/camunda"
	"github.com/bristermitten/hot-takes/internal/common/config"
	"github.com/bristermitten/hot-takes/internal/common/observability"
	"github.com/bristermitten/hot-takes/internal/server"
	generatetake "github.com/bristermitten/hot-takes/internal/workers/takes/generate-take"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the Zeebe job worker for " + generatetake.TaskType,
		Long: `Poll the Zeebe broker at camunda.broker_address for ` + generatetake.TaskType + ` jobs.

Each job may carry {"extra": [string]} and completes with {"take", "images"}.
Generation failures are thrown as BPMN errors. Health and metrics are served
on server.address while the worker runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := config.ValidateForWorker(e.cfg); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			gen, store, err := e.openGenerator(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs := observability.New(e.cfg.App.Name, nil, e.log)
			defer func() { _ = obs.Shutdown(context.Background()) }()

			handler, err := generatetake.NewHandler(generatetake.HandlerOptions{
				AppConfig:     e.cfg,
				Generator:     gen,
				Logger:        e.log,
				Observability: obs,
			})
			if err != nil {
				return err
			}
			if !handler.IsEnabled() {
				e.log.Info("Worker disabled by configuration", map[string]interface{}{
					"worker": config.GenerateTakeWorker,
				})
				return nil
			}

			client, err := camunda.NewClientWithConfig(ctx, camunda.ClientConfigFrom(e.cfg.Camunda))
			if err != nil {
				return err
			}
			defer client.Close()

			wcfg := handler.GetConfig()
			jobWorker := camunda.NewWorker(client.GetClient(), camunda.WorkerOptions{
				TaskType:       generatetake.TaskType,
				MaxJobsActive:  wcfg.MaxJobsActive,
				Timeout:        wcfg.Timeout,
				RequestTimeout: client.Config().RequestTimeout,
			}, handler, e.log)
			defer jobWorker.Stop()

			srv := server.New(server.Options{
				Address:       e.cfg.Server.Address,
				ReadTimeout:   config.GetDuration(e.cfg.Server.ReadTimeout),
				Generator:     gen,
				Store:         store,
				Logger:        e.log,
				Observability: obs,
			})
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("health server failed: %w", err)
			}

			e.log.Info("Shutdown signal received, stopping worker", nil)
			return nil
		},
	}
}
