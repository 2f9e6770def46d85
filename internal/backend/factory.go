// Package backend turns a location string into a records.Store.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"tarjetas/internal/records"
	azurestore "tarjetas/internal/records/azure"
	filestore "tarjetas/internal/records/file"
	sheetstore "tarjetas/internal/records/google"
	"tarjetas/internal/records/memory"
	s3store "tarjetas/internal/records/s3"
	sqlitestore "tarjetas/internal/records/sqlite"
)

// CleanupFunc releases whatever the store holds open.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store    records.Store
	Location Location
	Cleanup  CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens stores by location.
type Factory interface {
	Open(ctx context.Context, location string) (*Result, error)
}

// Config holds client settings for the remote stores.
type Config struct {
	S3 s3store.Config

	AzureServiceURL string

	GoogleCredentials sheetstore.Credentials
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	cfg    Config
	logger *slog.Logger
}

func NewFactory(cfg Config, logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{cfg: cfg, logger: logger}
}

var _ Factory = (*DefaultFactory)(nil)

func (f *DefaultFactory) Open(ctx context.Context, location string) (*Result, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var res *Result
	switch loc.Kind {
	case FileBackend:
		res = f.blobResult(loc, filestore.New(filePath(loc.Path)))
	case MemoryBackend:
		res = f.blobResult(loc, memory.Open(loc.Path))
	case S3Backend:
		res, err = f.openS3(ctx, loc)
	case AzureBackend:
		res, err = f.openAzure(loc)
	case SheetsBackend:
		res, err = f.openSheets(ctx, loc)
	case SQLiteBackend:
		res, err = f.openSQLite(loc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, loc.Kind)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized store",
		"backend", loc.Kind.String(),
		"location", loc.Raw,
		"gzip", loc.Gzip)
	return res, nil
}

func (f *DefaultFactory) blobResult(loc Location, blob records.Blob) *Result {
	return &Result{
		Store:    records.NewBlobStore(blob, records.WithGzip(loc.Gzip)),
		Location: loc,
	}
}

func (f *DefaultFactory) openS3(ctx context.Context, loc Location) (*Result, error) {
	client, err := s3store.NewClient(ctx, f.cfg.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return f.blobResult(loc, s3store.New(client, loc.Host, loc.Path)), nil
}

func (f *DefaultFactory) openAzure(loc Location) (*Result, error) {
	client, err := azurestore.NewClient(f.cfg.AzureServiceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Azure blob client: %w", err)
	}
	return f.blobResult(loc, azurestore.New(client, loc.Host, loc.Path)), nil
}

func (f *DefaultFactory) openSheets(ctx context.Context, loc Location) (*Result, error) {
	svc, err := sheetstore.NewService(ctx, f.cfg.GoogleCredentials)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	return &Result{
		Store:    sheetstore.New(svc, loc.Host, loc.Path),
		Location: loc,
	}, nil
}

func (f *DefaultFactory) openSQLite(loc Location) (*Result, error) {
	store, err := sqlitestore.Open(filePath(loc.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	return &Result{
		Store:    store,
		Location: loc,
		Cleanup:  store.Close,
	}, nil
}

// filePath expands a leading "~/" to the home directory.
func filePath(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + string(os.PathSeparator) + rest
		}
	}
	return p
}
