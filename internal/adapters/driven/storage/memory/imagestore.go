package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
	"github.com/custodia-labs/dishsafe/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageURLPrefix prefixes the URLs handed out by ImageStore.
const ImageURLPrefix = "memory://images/"

// ImageStore is an in-memory implementation of driven.ImageStore.
type ImageStore struct {
	mu     sync.RWMutex
	images map[string][]byte
}

// NewImageStore creates a new in-memory image store.
func NewImageStore() *ImageStore {
	return &ImageStore{
		images: make(map[string][]byte),
	}
}

// Upload stores a copy of data and returns its URL.
func (s *ImageStore) Upload(_ context.Context, _ domain.Credential, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.NewValidationError("image", "must not be empty")
	}
	url := ImageURLPrefix + uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[url] = append([]byte(nil), data...)
	return url, nil
}

// Get returns the image stored under url.
func (s *ImageStore) Get(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.images[url]
	return data, ok
}

// Count returns the number of stored images.
func (s *ImageStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
