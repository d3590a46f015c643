package adapters

import (
	"sync"

	"github.com/google/uuid"

	"github.com/xenking/md2pptx/internal/domain"
)

type InMemoryBlobStorage struct {
	blobs map[uuid.UUID][]byte
	mu    sync.Mutex
}

var _ domain.BlobStorage = (*InMemoryBlobStorage)(nil)

func NewInMemoryBlobStorage() *InMemoryBlobStorage {
	return &InMemoryBlobStorage{blobs: make(map[uuid.UUID][]byte)}
}

func (s *InMemoryBlobStorage) Store(data []byte) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.blobs[id] = data
	s.mu.Unlock()
	return id
}

// Load returns the blob without removing it, so a retried activity can read
// it again.
func (s *InMemoryBlobStorage) Load(id uuid.UUID) ([]byte, bool) {
	s.mu.Lock()
	data, ok := s.blobs[id]
	s.mu.Unlock()
	return data, ok
}

func (s *InMemoryBlobStorage) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.blobs, id)
	s.mu.Unlock()
}

func (s *InMemoryBlobStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
