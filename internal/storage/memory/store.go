// Package memory provides in-memory inventory storage.
//
// It backs tests and ephemeral outposts with the same contract as the
// persistent Badger store, using a sharded map for concurrent access.
package memory

import (
	"context"
	"sync"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/pkg/cmap"
)

// Store provides in-memory inventory record storage.
type Store struct {
	records *cmap.Map[*domain.InventoryRecord]

	// Guards multi-key operations like ReplaceAll.
	mu sync.RWMutex
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		records: cmap.New[*domain.InventoryRecord](),
	}
}

// Get retrieves a record by key.
func (s *Store) Get(_ context.Context, key string) (*domain.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records.Get(key)
	if !ok {
		return nil, domain.ErrNotFound.WithDetails(key)
	}
	return record.Clone(), nil
}

// Put stores a record under its key, overwriting any existing entry.
func (s *Store) Put(_ context.Context, record *domain.InventoryRecord) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.records.Set(record.Key(), record.Clone())
	return nil
}

// Delete removes a record.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.records.Pop(key); !ok {
		return domain.ErrNotFound.WithDetails(key)
	}
	return nil
}

// List returns clones of all records.
func (s *Store) List(_ context.Context) ([]*domain.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.InventoryRecord, 0, s.records.Count())
	s.records.Range(func(_ string, record *domain.InventoryRecord) bool {
		records = append(records, record.Clone())
		return true
	})
	return records, nil
}

// ReplaceAll atomically discards current contents and stores the given
// records.
func (s *Store) ReplaceAll(_ context.Context, records []*domain.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records.Clear()
	for _, record := range records {
		s.records.Set(record.Key(), record.Clone())
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.records.Count(), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
