package mock

import (
	"context"
	"sync"

	"github.com/ddobak/lawharvest"
)

var _ lawharvest.ObjectStore = (*ObjectStore)(nil)

// ObjectStore is a mock implementation of lawharvest.ObjectStore.
type ObjectStore struct {
	PutFn    func(ctx context.Context, key string, data []byte) error
	GetFn    func(ctx context.Context, key string) ([]byte, error)
	ExistsFn func(ctx context.Context, key string) (bool, error)
}

func (s *ObjectStore) Put(ctx context.Context, key string, data []byte) error {
	return s.PutFn(ctx, key, data)
}

func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.GetFn(ctx, key)
}

func (s *ObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.ExistsFn(ctx, key)
}

var _ lawharvest.ObjectStore = (*MemStore)(nil)

// MemStore is an in-memory ObjectStore for tests that need real storage
// semantics (existence checks, collision chains) without a filesystem.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

func (s *MemStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return nil
}

func (s *MemStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, lawharvest.Errorf(lawharvest.ENOTFOUND, "object %q not found", key)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Keys returns the stored keys for assertions.
func (s *MemStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
