// Package memblob stages raw source file content in memory for the session.
// Nothing here survives a restart, matching the system's in-memory lifetime.
package memblob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

type Storage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func New() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

func (s *Storage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("read blob content: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = raw
	return nil
}

func (s *Storage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	raw, ok := s.blobs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("open blob %s: not found", key)
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}
