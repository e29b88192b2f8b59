package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/siagacall/relay/domain/repositories"
)

// MockChunkStore is an in-memory chunk store for tests. Set SaveErr or
// RemoveErr to force failures.
type MockChunkStore struct {
	SaveErr   error
	RemoveErr error

	mu      sync.Mutex
	chunks  map[string][]byte
	saves   int
	removes int
}

var _ repositories.ChunkStore = (*MockChunkStore)(nil)

// NewMockChunkStore creates a new in-memory chunk store
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{chunks: make(map[string][]byte)}
}

// Save stores the chunk under a fresh handle
func (s *MockChunkStore) Save(ctx context.Context, originID string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saves++
	if s.SaveErr != nil {
		return "", s.SaveErr
	}

	handle := fmt.Sprintf("%s/%s", originID, uuid.NewString())
	s.chunks[handle] = data
	return handle, nil
}

// Remove deletes the stored chunk
func (s *MockChunkStore) Remove(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removes++
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	if _, ok := s.chunks[handle]; !ok {
		return fmt.Errorf("chunk not found: %s", handle)
	}
	delete(s.chunks, handle)
	return nil
}

// Len reports how many chunks are currently stored
func (s *MockChunkStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Saves reports how many Save calls were made
func (s *MockChunkStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Removes reports how many Remove calls were made
func (s *MockChunkStore) Removes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}
