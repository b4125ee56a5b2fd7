package storage

import (
	"context"
	"sync"

	"github.com/yourorg/pdf-editor-service/pkg/errors"
)

// MockStore is an in-memory implementation of Store for testing.
type MockStore struct {
	files map[string][]byte
	mu    sync.RWMutex
}

// NewMockStore creates a new mock store.
func NewMockStore() *MockStore {
	return &MockStore{files: make(map[string][]byte)}
}

// Save stores data in memory under the sanitized filename.
func (m *MockStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return "", errors.NewMissingFileError("invalid filename")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[name] = buf
	return name, nil
}

// Read returns the stored bytes for filename.
func (m *MockStore) Read(ctx context.Context, filename string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[SanitizeFilename(filename)]
	if !ok {
		return nil, errors.NewNotFoundError("File not found")
	}
	return data, nil
}

// Len reports how many documents are stored.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
