package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tarjetas/internal/backend"
	"tarjetas/internal/cli"
	"tarjetas/internal/log"
	"tarjetas/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(log.ComponentWorker)

	logger.Info("Starting tarjetas-worker", log.FieldOperation, log.OpStartup)

	if len(cfg.MirrorLocations) == 0 {
		logger.Error("No mirrors configured - set MIRROR_LOCATIONS")
		os.Exit(1)
	}

	factory := backend.NewFactory(cfg.Backend(), logger.WithComponent(log.ComponentBackend).Slog())
	primary := cli.InitStore(context.Background(), logger, factory, cfg.CreditPath)
	opened := []*backend.Result{primary}

	mirrors := make([]worker.Mirror, 0, len(cfg.MirrorLocations))
	for _, location := range cfg.MirrorLocations {
		res := cli.InitStore(context.Background(), logger, factory, location)
		opened = append(opened, res)
		mirrors = append(mirrors, worker.Mirror{Location: location, Store: res.Store})
	}
	mirrorWorker := worker.NewMirrorWorker(cfg.CreditPath, primary.Store, mirrors, logger)

	amqpClient := cli.InitAMQP(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		for _, res := range opened {
			if err := res.Close(); err != nil {
				logger.Warn("Store close error", log.FieldLocation, res.Location.Raw, log.FieldError, err)
			}
		}
	})

	logger.Info("Mirror worker configured",
		log.FieldLocation, cfg.CreditPath,
		"mirrors", len(mirrors),
		"interval", cfg.SyncInterval,
		"amqp", amqpClient != nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mirrorWorker.Run(gctx, cfg.SyncInterval)
	})
	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeCreditsSaved(gctx, mirrorWorker.HandleCreditsSaved)
		})
	} else {
		logger.Info("Skipping AMQP consumption - mirrors sync on the interval only")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
