package records

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"

	"tarjetas/internal/core"
)

// BlobStore is a Store that keeps the encoded dataset in a single Blob.
type BlobStore struct {
	blob Blob
	gzip bool
}

type BlobOption func(*BlobStore)

// WithGzip compresses on save and decompresses on load, for locations
// ending in ".gz".
func WithGzip(enabled bool) BlobOption {
	return func(s *BlobStore) { s.gzip = enabled }
}

func NewBlobStore(blob Blob, opts ...BlobOption) *BlobStore {
	s := &BlobStore{blob: blob}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*BlobStore)(nil)

func (s *BlobStore) Load(ctx context.Context) ([]core.Credit, error) {
	data, err := s.blob.Read(ctx)
	if err != nil {
		return nil, err
	}
	if !s.gzip {
		return Unmarshal(data)
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	return Decode(zr)
}

func (s *BlobStore) Save(ctx context.Context, credits []core.Credit) error {
	data, err := Marshal(credits)
	if err != nil {
		return err
	}
	if s.gzip {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("gzip dataset: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("gzip dataset: %w", err)
		}
		data = buf.Bytes()
	}
	return s.blob.Write(ctx, data)
}
