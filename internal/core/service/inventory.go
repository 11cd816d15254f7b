package service

import (
	"context"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/storage"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// InventoryService handles inventory record operations for one outpost.
type InventoryService struct {
	store   storage.RecordStore
	metrics *metric.Registry
}

// NewInventoryService creates an inventory service over the given store.
// The metrics registry may be nil.
func NewInventoryService(store storage.RecordStore, metrics *metric.Registry) *InventoryService {
	return &InventoryService{store: store, metrics: metrics}
}

// List returns all inventory records.
func (s *InventoryService) List(ctx context.Context) ([]*domain.InventoryRecord, error) {
	return s.store.List(ctx)
}

// Get retrieves a record by name and category.
func (s *InventoryService) Get(ctx context.Context, name, category string) (*domain.InventoryRecord, error) {
	return s.store.Get(ctx, domain.RecordKey(name, category))
}

// Create stores a new record. Fails with domain.ErrRecordConflict if a
// record with the same identity already exists.
func (s *InventoryService) Create(ctx context.Context, record *domain.InventoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if _, err := s.store.Get(ctx, record.Key()); err == nil {
		return domain.ErrRecordConflict.WithDetails(record.Key())
	}

	if err := s.store.Put(ctx, record); err != nil {
		return err
	}
	s.updateGauge(ctx)
	return nil
}

// Update overwrites an existing record. Fails with domain.ErrNotFound
// if the record does not exist.
func (s *InventoryService) Update(ctx context.Context, record *domain.InventoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if _, err := s.store.Get(ctx, record.Key()); err != nil {
		return err
	}
	return s.store.Put(ctx, record)
}

// Delete removes a record by name and category.
func (s *InventoryService) Delete(ctx context.Context, name, category string) error {
	if err := s.store.Delete(ctx, domain.RecordKey(name, category)); err != nil {
		return err
	}
	s.updateGauge(ctx)
	return nil
}

// Count returns the number of stored records.
func (s *InventoryService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

func (s *InventoryService) updateGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if n, err := s.store.Count(ctx); err == nil {
		s.metrics.RecordCount.Set(float64(n))
	}
}
