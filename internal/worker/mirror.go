// Package worker holds the background jobs: copying the dataset to its
// mirrors and rolling every credit forward.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tarjetas/internal/amqp"
	"tarjetas/internal/log"
	"tarjetas/internal/records"
)

// Mirror is one place the dataset is copied to.
type Mirror struct {
	Location string
	Store    records.Saver
}

// MirrorWorker copies the primary dataset to every mirror.
type MirrorWorker struct {
	primary  string
	source   records.Loader
	mirrors  []Mirror
	logger   *log.Logger
	mu       sync.Mutex
	lastSync time.Time
}

func NewMirrorWorker(primary string, source records.Loader, mirrors []Mirror, logger *log.Logger) *MirrorWorker {
	return &MirrorWorker{
		primary: primary,
		source:  source,
		mirrors: mirrors,
		logger:  logger.WithComponent(log.ComponentWorker),
	}
}

// Sync loads the primary once and overwrites every mirror in parallel.
// A failing mirror does not stop the others; all failures are returned
// joined.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	credits, err := w.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load primary %s: %w", w.primary, err)
	}

	errs := make([]error, len(w.mirrors))
	var g errgroup.Group
	for i, m := range w.mirrors {
		g.Go(func() error {
			if err := m.Store.Save(ctx, credits); err != nil {
				errs[i] = fmt.Errorf("mirror %s: %w", m.Location, err)
				w.logger.ErrorContext(ctx, "Mirror failed",
					log.FieldOperation, log.OpMirror, log.FieldLocation, m.Location, log.FieldError, err)
				return nil
			}
			w.logger.DebugContext(ctx, "Mirror updated", log.FieldLocation, m.Location)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	w.lastSync = time.Now()
	w.logger.InfoContext(ctx, "Mirrors synchronized",
		log.FieldOperation, log.OpMirror,
		"mirrors", len(w.mirrors),
		"credits", len(credits),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// LastSync returns when every mirror last matched the primary.
func (w *MirrorWorker) LastSync() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync
}

// HandleCreditsSaved syncs when the saved location is this worker's
// primary and ignores other locations.
func (w *MirrorWorker) HandleCreditsSaved(ctx context.Context, msg *amqp.CreditsSavedMessage) error {
	if msg.Location != w.primary {
		w.logger.DebugContext(ctx, "Ignoring save of another location", log.FieldLocation, msg.Location)
		return nil
	}
	return w.Sync(ctx)
}

// Run syncs once, then every interval until ctx ends.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Sync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}
