package storage

import (
	"context"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// RecordStore is the persistence contract for inventory records.
//
// Keys are the case-insensitive record identity from domain.RecordKey.
// Implementations return clones so callers cannot mutate stored state.
type RecordStore interface {
	// Get retrieves a record by key. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, key string) (*domain.InventoryRecord, error)

	// Put stores a record under its key, overwriting any existing entry.
	Put(ctx context.Context, record *domain.InventoryRecord) error

	// Delete removes a record. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, key string) error

	// List returns all records.
	List(ctx context.Context) ([]*domain.InventoryRecord, error)

	// ReplaceAll atomically discards the current contents and stores
	// the given records. Used by the replace merge strategy.
	ReplaceAll(ctx context.Context, records []*domain.InventoryRecord) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases underlying resources.
	Close() error
}
