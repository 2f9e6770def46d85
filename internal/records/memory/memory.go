// Package memory keeps the encoded dataset in process memory. Named blobs
// are shared process-wide so that "memory://name" resolves to the same
// data every time it is opened.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tarjetas/internal/records"
)

type Blob struct {
	mu     sync.Mutex
	name   string
	data   []byte
	exists bool
	writes int
}

var _ records.Blob = (*Blob)(nil)

var (
	registryMu sync.Mutex
	registry   = map[string]*Blob{}
)

// New returns an unnamed, empty blob.
func New() *Blob {
	return &Blob{}
}

// NewWithData returns an unnamed blob that already holds data.
func NewWithData(data []byte) *Blob {
	return &Blob{data: append([]byte(nil), data...), exists: true}
}

// Open returns the process-wide blob registered under name, creating it
// on first use.
func Open(name string) *Blob {
	registryMu.Lock()
	defer registryMu.Unlock()
	if b, ok := registry[name]; ok {
		return b
	}
	b := &Blob{name: name}
	registry[name] = b
	return b
}

// Reset drops every named blob.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = map[string]*Blob{}
}

func (b *Blob) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.exists {
		return nil, fmt.Errorf("%w: memory://%s", records.ErrNotFound, b.name)
	}
	return append([]byte(nil), b.data...), nil
}

func (b *Blob) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	b.exists = true
	b.writes++
	return nil
}

// Writes reports how many times the blob has been written.
func (b *Blob) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// Bytes returns a copy of the current contents.
func (b *Blob) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.data...)
}
