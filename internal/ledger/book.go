// Package ledger holds the loaded credit list and applies every mutation
// the presentation layer may perform.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tarjetas/internal/amqp"
	"tarjetas/internal/core"
	"tarjetas/internal/records"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Notifier is told about every successful save. *amqp.Client satisfies it.
type Notifier interface {
	PublishCreditsSaved(ctx context.Context, msg *amqp.CreditsSavedMessage) error
}

// StatementInput is the editable part of a statement.
type StatementInput struct {
	Month               int
	Year                int
	ClosingDate         core.Date
	DueDate             core.Date
	RequiredMinPayment1 core.Money
	RequiredMinPayment2 core.Money
	RequiredFullPayment core.Money
}

// Book is the in-memory dataset. Every mutator recomputes the touched
// statement before returning, so derived fields never go stale.
type Book struct {
	mu       sync.RWMutex
	store    records.Store
	location string
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	credits  []core.Credit
	dirty    bool
}

type Option func(*Book)

// WithNotifier publishes a CreditsSavedMessage after each save.
func WithNotifier(n Notifier) Option {
	return func(b *Book) { b.notifier = n }
}

// WithLocation names the store in save notifications and logs.
func WithLocation(location string) Option {
	return func(b *Book) { b.location = location }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// WithClock replaces time.Now, for "today" in new payments.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

func New(store records.Store, opts ...Option) *Book {
	b := &Book{
		store:   store,
		logger:  slog.Default(),
		now:     time.Now,
		credits: []core.Credit{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the in-memory dataset with the store's contents. Every
// credit must pass core.Credit.Validate. On error the current dataset is
// kept.
func (b *Book) Load(ctx context.Context) error {
	credits, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credits: %w", err)
	}
	for i, c := range credits {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("load credits: credit %d: %w", i, err)
		}
	}
	b.mu.Lock()
	b.credits = credits
	b.dirty = false
	b.mu.Unlock()
	b.logger.InfoContext(ctx, "Credits loaded", "location", b.location, "credits", len(credits))
	return nil
}

// Replace swaps in a new dataset without touching the store.
func (b *Book) Replace(credits []core.Credit) {
	cp := cloneCredits(credits)
	b.mu.Lock()
	b.credits = cp
	b.dirty = true
	b.mu.Unlock()
}

// Location returns the configured store location.
func (b *Book) Location() string { return b.location }

// Dirty reports whether there are changes not yet saved.
func (b *Book) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// Credits returns a deep copy of the dataset.
func (b *Book) Credits() []core.Credit {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneCredits(b.credits)
}

func (b *Book) Credit(ci int) (core.Credit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, err := b.credit(ci)
	if err != nil {
		return core.Credit{}, err
	}
	return c.Clone(), nil
}

func (b *Book) Statement(ci, si int) (core.Statement, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, err := b.statement(ci, si)
	if err != nil {
		return core.Statement{}, err
	}
	return s.Clone(), nil
}

func (b *Book) Payment(ci, si, pi int) (core.Payment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, err := b.statement(ci, si)
	if err != nil {
		return core.Payment{}, err
	}
	if pi < 0 || pi >= len(s.Payments) {
		return core.Payment{}, fmt.Errorf("%w: payment %d of %d", ErrIndexOutOfRange, pi, len(s.Payments))
	}
	return s.Payments[pi], nil
}

// ResolveStatementIndex maps si onto credit ci's statements. Negative
// values count from the end: -1 is the latest statement.
func (b *Book) ResolveStatementIndex(ci, si int) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, err := b.credit(ci)
	if err != nil {
		return 0, err
	}
	n := len(c.Statements)
	idx := si
	if si < 0 {
		idx = n + si
	}
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: statement %d of %d", ErrIndexOutOfRange, si, n)
	}
	return idx, nil
}

// UpdateStatement overwrites the editable fields of a statement.
func (b *Book) UpdateStatement(ci, si int, in StatementInput) (core.Statement, error) {
	return b.mutateStatement(ci, si, func(s *core.Statement) error {
		s.Month = in.Month
		s.Year = in.Year
		s.ClosingDate = in.ClosingDate
		s.DueDate = in.DueDate
		s.RequiredMinPayment1 = in.RequiredMinPayment1
		s.RequiredMinPayment2 = in.RequiredMinPayment2
		s.RequiredFullPayment = in.RequiredFullPayment
		return nil
	})
}

// ReplacePayments overwrites the whole payment sequence.
func (b *Book) ReplacePayments(ci, si int, payments []core.Payment) (core.Statement, error) {
	return b.mutateStatement(ci, si, func(s *core.Statement) error {
		s.Payments = append([]core.Payment{}, payments...)
		return nil
	})
}

func (b *Book) UpdatePayment(ci, si, pi int, p core.Payment) (core.Statement, error) {
	return b.mutateStatement(ci, si, func(s *core.Statement) error {
		if pi < 0 || pi >= len(s.Payments) {
			return fmt.Errorf("%w: payment %d of %d", ErrIndexOutOfRange, pi, len(s.Payments))
		}
		s.Payments[pi] = p
		return nil
	})
}

// AddPayment appends a blank payment dated today.
func (b *Book) AddPayment(ci, si int) (core.Statement, error) {
	today := core.DateOf(b.now())
	return b.mutateStatement(ci, si, func(s *core.Statement) error {
		s.Payments = append(s.Payments, core.NewPayment(today))
		return nil
	})
}

// CreateNextStatements rolls every credit forward by one statement. The
// new statements are computed first and appended only if all of them
// could be built, so a failure leaves the dataset unchanged.
func (b *Book) CreateNextStatements(now time.Time) ([]core.Statement, error) {
	today := core.DateOf(now)
	b.mu.Lock()
	defer b.mu.Unlock()

	next := make([]core.Statement, len(b.credits))
	for i, c := range b.credits {
		s, err := c.NextStatement(today)
		if err != nil {
			return nil, fmt.Errorf("credit %d: %w", i, err)
		}
		next[i] = s
	}
	for i := range b.credits {
		b.credits[i].Statements = append(b.credits[i].Statements, next[i])
	}
	if len(next) > 0 {
		b.dirty = true
	}
	return cloneStatements(next), nil
}

// Save overwrites the store with the whole dataset, then notifies. A
// notification failure is logged and does not fail the save.
func (b *Book) Save(ctx context.Context) error {
	b.mu.Lock()
	credits := cloneCredits(b.credits)
	if err := b.store.Save(ctx, credits); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("save credits: %w", err)
	}
	b.dirty = false
	b.mu.Unlock()

	statements := 0
	for _, c := range credits {
		statements += len(c.Statements)
	}
	b.logger.InfoContext(ctx, "Credits saved", "location", b.location, "credits", len(credits), "statements", statements)

	if b.notifier != nil {
		msg := amqp.NewCreditsSavedMessage(b.location, len(credits), statements)
		if err := b.notifier.PublishCreditsSaved(ctx, msg); err != nil {
			b.logger.ErrorContext(ctx, "Failed to publish credits saved message", "location", b.location, "error", err)
		}
	}
	return nil
}

func (b *Book) mutateStatement(ci, si int, fn func(*core.Statement) error) (core.Statement, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.statement(ci, si); err != nil {
		return core.Statement{}, err
	}
	s := b.credits[ci].Statements[si].Clone()
	if err := fn(&s); err != nil {
		return core.Statement{}, err
	}
	s.Recompute()
	b.credits[ci].Statements[si] = s
	b.dirty = true
	return s.Clone(), nil
}

func (b *Book) credit(ci int) (*core.Credit, error) {
	if ci < 0 || ci >= len(b.credits) {
		return nil, fmt.Errorf("%w: credit %d of %d", ErrIndexOutOfRange, ci, len(b.credits))
	}
	return &b.credits[ci], nil
}

func (b *Book) statement(ci, si int) (*core.Statement, error) {
	c, err := b.credit(ci)
	if err != nil {
		return nil, err
	}
	if si < 0 || si >= len(c.Statements) {
		return nil, fmt.Errorf("%w: statement %d of %d", ErrIndexOutOfRange, si, len(c.Statements))
	}
	return &c.Statements[si], nil
}

func cloneCredits(in []core.Credit) []core.Credit {
	out := make([]core.Credit, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneStatements(in []core.Statement) []core.Statement {
	out := make([]core.Statement, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
