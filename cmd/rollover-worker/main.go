package main

import (
	"context"
	"errors"
	"os"
	"time"

	"tarjetas/internal/backend"
	"tarjetas/internal/cli"
	"tarjetas/internal/ledger"
	"tarjetas/internal/log"
	"tarjetas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentRollover)

	logger.Info("Starting rollover-worker", log.FieldOperation, log.OpStartup, log.FieldLocation, cfg.CreditPath)

	factory := backend.NewFactory(cfg.Backend(), logger.WithComponent(log.ComponentBackend).Slog())
	store := cli.InitStore(context.Background(), logger, factory, cfg.CreditPath)
	defer store.Close()

	opts := []ledger.Option{
		ledger.WithLocation(cfg.CreditPath),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Slog()),
	}
	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
		opts = append(opts, ledger.WithNotifier(amqpClient))
	}
	rollover := worker.NewRollover(ledger.New(store.Store, opts...), logger)

	if cfg.RolloverSchedule == "" {
		n, err := rollover.RunOnce(context.Background())
		switch {
		case errors.Is(err, worker.ErrLoad):
			cli.LoadOrExit(logger, cfg.CreditPath, err)
		case errors.Is(err, worker.ErrRollForward):
			logger.Error("Failed to roll credits forward, nothing was saved", log.FieldError, err)
			os.Exit(1)
		case err != nil:
			logger.Error("Failed to save rolled-forward credits", log.FieldLocation, cfg.CreditPath, log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Rollover complete", "created", n)
		return
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)
	if err := rollover.Schedule(ctx, cfg.RolloverSchedule); err != nil {
		logger.Error("Failed to schedule rollover", log.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Rollover-worker shutdown complete")
}
