package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"tarjetas/internal/backend"
	"tarjetas/internal/cli"
	apphttp "tarjetas/internal/http"
	"tarjetas/internal/ledger"
	"tarjetas/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	logger.Info("Starting tarjetas", log.FieldOperation, log.OpStartup, log.FieldLocation, cfg.CreditPath)

	factory := backend.NewFactory(cfg.Backend(), logger.WithComponent(log.ComponentBackend).Slog())
	store := cli.InitStore(context.Background(), logger, factory, cfg.CreditPath)

	opts := []ledger.Option{
		ledger.WithLocation(cfg.CreditPath),
		ledger.WithLogger(logger.WithComponent(log.ComponentLedger).Slog()),
	}
	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		opts = append(opts, ledger.WithNotifier(amqpClient))
	}
	book := ledger.New(store.Store, opts...)
	cli.LoadOrExit(logger, cfg.CreditPath, book.Load(context.Background()))

	srv := apphttp.NewServer(":"+cfg.Port, book, apphttp.Options{
		DefaultStatementIndex: cfg.DefaultStatementIndex,
		AutoSave:              cfg.AutoSave,
		AllowedOrigins:        cfg.CORSAllowedOrigins,
		RateLimitPerMinute:    cfg.RateLimitPerMinute,
		Logger:                logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if book.Dirty() {
			logger.Info("Saving unsaved changes before exit")
			if err := book.Save(ctx); err != nil {
				logger.Error("Final save failed", log.FieldError, err)
			}
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := store.Close(); err != nil {
			logger.Warn("Store close error", log.FieldError, err)
		}
	})

	logger.Info("Starting HTTP server",
		"port", cfg.Port,
		"autosave", cfg.AutoSave,
		log.FieldBackend, store.Location.Kind.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
