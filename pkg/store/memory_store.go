package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a map-backed RecordStore for tests and throwaway runs
type MemoryStore struct {
	mu        sync.Mutex
	resources map[string][]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{resources: make(map[string][]json.RawMessage)}
}

func (s *MemoryStore) ReadAll(_ context.Context, resource string) ([]json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.resources[resource]
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out, nil
}

func (s *MemoryStore) WriteAll(_ context.Context, resource string, records []json.RawMessage) error {
	if err := validResource(resource); err != nil {
		return err
	}
	copied := make([]json.RawMessage, len(records))
	for i, r := range records {
		copied[i] = append(json.RawMessage(nil), r...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[resource] = copied
	return nil
}

func (s *MemoryStore) Init(_ context.Context, resources ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, resource := range resources {
		if err := validResource(resource); err != nil {
			return err
		}
		if _, ok := s.resources[resource]; !ok {
			s.resources[resource] = []json.RawMessage{}
		}
	}
	return nil
}
