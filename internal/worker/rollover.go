package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"tarjetas/internal/ledger"
	"tarjetas/internal/log"
)

// RunOnce failures wrap one of these so callers can tell the stages apart.
var (
	ErrLoad        = errors.New("rollover: load")
	ErrRollForward = errors.New("rollover: roll forward")
	ErrSave        = errors.New("rollover: save")
)

// Rollover appends the next statement to every credit and saves.
type Rollover struct {
	book   *ledger.Book
	logger *log.Logger
	now    func() time.Time
}

func NewRollover(book *ledger.Book, logger *log.Logger) *Rollover {
	return &Rollover{
		book:   book,
		logger: logger.WithComponent(log.ComponentRollover),
		now:    time.Now,
	}
}

// RunOnce reloads the dataset so edits made since the last run are kept,
// rolls every credit forward and saves. It returns the number of
// statements created.
func (r *Rollover) RunOnce(ctx context.Context) (int, error) {
	if err := r.book.Load(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	next, err := r.book.CreateNextStatements(r.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRollForward, err)
	}
	if err := r.book.Save(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSave, err)
	}
	r.logger.InfoContext(ctx, "Credits rolled forward",
		log.FieldOperation, log.OpNextStatements,
		log.FieldLocation, r.book.Location(),
		"created", len(next))
	return len(next), nil
}

// Schedule runs RunOnce on a standard five-field cron spec until ctx
// ends. Overlapping runs are skipped.
func (r *Rollover) Schedule(ctx context.Context, spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.ErrorContext(ctx, "Scheduled rollover failed", log.FieldError, err)
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	c.Start()
	r.logger.Info("Rollover scheduled", "schedule", spec)
	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("Rollover scheduler stopped")
	return nil
}
