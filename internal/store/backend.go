package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by a Backend when nothing has been persisted yet.
var ErrNoDocument = errors.New("no catalog document")

// Backend persists the raw catalog document. Implementations store the
// bytes they are given verbatim and hand them back unchanged.
type Backend interface {
	// Read returns the persisted document, or ErrNoDocument.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the persisted document.
	Write(ctx context.Context, data []byte) error
	// Close releases the backend.
	Close() error
}

// MemoryBackend keeps the document in memory. Used by tests and tools.
type MemoryBackend struct {
	data []byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Read implements Backend.
func (m *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, ErrNoDocument
	}
	return append([]byte(nil), m.data...), nil
}

// Write implements Backend.
func (m *MemoryBackend) Write(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error { return nil }
