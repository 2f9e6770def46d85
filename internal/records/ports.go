// Package records persists the credit list as a sequence of records, one
// credit per record, in insertion order.
package records

import (
	"context"
	"errors"

	"tarjetas/internal/core"
)

// Ports for the backing store.
type (
	// Loader reads the whole dataset. Any malformed record fails the load.
	Loader interface {
		Load(ctx context.Context) ([]core.Credit, error)
	}

	// Saver replaces the whole dataset.
	Saver interface {
		Save(ctx context.Context, credits []core.Credit) error
	}

	Store interface {
		Loader
		Saver
	}

	// Blob is a single object holding the encoded dataset: a local file,
	// an S3 object, an Azure blob.
	Blob interface {
		Read(ctx context.Context) ([]byte, error)
		Write(ctx context.Context, data []byte) error
	}
)

// ErrNotFound is returned when the location holds no dataset yet.
var ErrNotFound = errors.New("dataset not found")
