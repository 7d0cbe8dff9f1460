package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

type memoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Object
}

func NewMemoryStore() Store {
	return &memoryStore{
		collections: map[string]map[string]Object{},
	}
}

func (s *memoryStore) Get(ctx context.Context, collection, id string) (Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	return maps.Clone(obj), nil
}

func (s *memoryStore) Put(ctx context.Context, collection, id string, obj Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection]; !ok {
		s.collections[collection] = map[string]Object{}
	}

	s.collections[collection][id] = maps.Clone(obj)

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	delete(s.collections[collection], id)

	return nil
}

func (s *memoryStore) Find(ctx context.Context, collection, key, value string) ([]Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Object{}

	objects := s.collections[collection]
	for _, id := range slices.Sorted(maps.Keys(objects)) {
		if v, ok := objects[id][key].(string); ok && v == value {
			result = append(result, maps.Clone(objects[id]))
		}
	}

	return result, nil
}

func (s *memoryStore) Close() {}
