package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"tarjetas/internal/backend"
	"tarjetas/internal/cli"
	"tarjetas/internal/log"
	"tarjetas/internal/records"
	"tarjetas/internal/seed"
)

func main() {
	force := flag.Bool("force", false, "overwrite an existing dataset")
	location := flag.String("location", "", "target location (defaults to CREDIT_JSON_PATH)")
	flag.Parse()

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)
	if *location == "" {
		*location = cfg.CreditPath
	}

	ctx := context.Background()
	factory := backend.NewFactory(cfg.Backend(), logger.WithComponent(log.ComponentBackend).Slog())
	store := cli.InitStore(ctx, logger, factory, *location)
	defer store.Close()

	existing, err := store.Store.Load(ctx)
	switch {
	case err == nil && !*force:
		logger.Error("Dataset already exists, pass -force to overwrite",
			log.FieldLocation, *location, "credits", len(existing))
		store.Close()
		os.Exit(1)
	case err != nil && !errors.Is(err, records.ErrNotFound) && !*force:
		logger.Error("Existing dataset is unreadable, pass -force to overwrite",
			log.FieldLocation, *location, log.FieldError, err)
		store.Close()
		os.Exit(1)
	}

	credits := seed.Example()
	for i, c := range credits {
		if err := c.Validate(); err != nil {
			logger.Error("Example dataset is invalid", "credit", i, log.FieldError, err)
			store.Close()
			os.Exit(1)
		}
	}
	if err := store.Store.Save(ctx, credits); err != nil {
		logger.Error("Failed to write example dataset", log.FieldLocation, *location, log.FieldError, err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("Example dataset written", log.FieldLocation, *location, "credits", len(credits))
}
