package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/storage"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/metric"
)

// SyncService implements inventory export and import for one outpost.
//
// Import applies a remote payload to the local store under one of the
// add, merge or replace strategies. Protocol faults are detected before
// any record is written, so a malformed payload never leaves the store
// partially modified.
type SyncService struct {
	store   storage.RecordStore
	fort    string
	log     logger.Logger
	metrics *metric.Registry

	now func() time.Time
}

// NewSyncService creates a sync service for the named fort.
// The metrics registry may be nil.
func NewSyncService(store storage.RecordStore, fort string, log logger.Logger, metrics *metric.Registry) *SyncService {
	if log == nil {
		log = logger.Default()
	}
	return &SyncService{
		store:   store,
		fort:    fort,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// Export builds a sync payload from the current inventory.
func (s *SyncService) Export(ctx context.Context) (*domain.SyncPayload, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	inventory := make([]domain.InventoryRecord, 0, len(records))
	for _, record := range records {
		inventory = append(inventory, *record)
	}

	payload := &domain.SyncPayload{
		SourceFort:      s.fort,
		ExportTimestamp: s.now().UTC(),
		FormatVersion:   domain.SyncFormatVersion,
		Inventory:       inventory,
	}

	s.log.Info("inventory exported",
		"fort", s.fort,
		"record_count", len(inventory))
	return payload, nil
}

// Import applies a remote payload to the local inventory.
//
// Validation happens up front: a malformed payload, unknown strategy,
// version mismatch or invalid record fails the import before any
// mutation. A store failure mid-apply surfaces as a PartialSyncError
// carrying the statistics accumulated so far.
func (s *SyncService) Import(ctx context.Context, req *domain.ImportRequest) (*domain.ImportResponse, error) {
	if err := req.SyncPayload.Validate(); err != nil {
		return nil, err
	}
	if req.SyncPayload.FormatVersion != domain.SyncFormatVersion {
		return nil, domain.ErrMalformedPayload.WithDetails(
			fmt.Sprintf("unsupported sync_format_version %q", req.SyncPayload.FormatVersion))
	}

	strategy, err := domain.ParseMergeStrategy(req.MergeStrategy)
	if err != nil {
		return nil, err
	}

	for i := range req.SyncPayload.Inventory {
		if err := req.SyncPayload.Inventory[i].Validate(); err != nil {
			return nil, domain.ErrMalformedPayload.WithDetails(
				fmt.Sprintf("inventory[%d]: %v", i, err))
		}
	}

	var stats domain.MergeStatistics
	switch strategy {
	case domain.StrategyAdd:
		stats, err = s.applyAdd(ctx, req.SyncPayload.Inventory)
	case domain.StrategyMerge:
		stats, err = s.applyMerge(ctx, req.SyncPayload.Inventory)
	case domain.StrategyReplace:
		stats, err = s.applyReplace(ctx, req.SyncPayload.Inventory)
	}
	if err != nil {
		s.observe(string(strategy), "failure", stats)
		return nil, &domain.PartialSyncError{Stats: stats, Cause: err}
	}

	s.observe(string(strategy), "success", stats)
	s.log.Info("inventory imported",
		"fort", s.fort,
		"source_fort", req.SyncPayload.SourceFort,
		"strategy", string(strategy),
		"added", stats.Added,
		"updated", stats.Updated,
		"skipped", stats.Skipped)

	return &domain.ImportResponse{
		Status:       "success",
		ImportedFrom: req.SyncPayload.SourceFort,
		Statistics:   stats,
	}, nil
}

// applyAdd inserts records that do not exist locally and skips the rest.
func (s *SyncService) applyAdd(ctx context.Context, incoming []domain.InventoryRecord) (domain.MergeStatistics, error) {
	var stats domain.MergeStatistics

	for i := range incoming {
		record := incoming[i]
		_, err := s.store.Get(ctx, record.Key())
		if err == nil {
			stats.Skipped++
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return stats, err
		}
		if err := s.store.Put(ctx, &record); err != nil {
			return stats, err
		}
		stats.Added++
	}
	return stats, nil
}

// applyMerge combines incoming records with local ones. Quantities sum;
// descriptive fields from the source win when set.
func (s *SyncService) applyMerge(ctx context.Context, incoming []domain.InventoryRecord) (domain.MergeStatistics, error) {
	var stats domain.MergeStatistics

	for i := range incoming {
		record := incoming[i]

		existing, err := s.store.Get(ctx, record.Key())
		if errors.Is(err, domain.ErrNotFound) {
			if err := s.store.Put(ctx, &record); err != nil {
				return stats, err
			}
			stats.Added++
			continue
		}
		if err != nil {
			// A lookup failure is not an absent record; overwriting here
			// would lose the existing quantity.
			return stats, err
		}

		existing.MergeFrom(&record)
		if err := s.store.Put(ctx, existing); err != nil {
			return stats, err
		}
		stats.Updated++
	}
	return stats, nil
}

// applyReplace swaps the entire local inventory for the incoming one.
func (s *SyncService) applyReplace(ctx context.Context, incoming []domain.InventoryRecord) (domain.MergeStatistics, error) {
	records := make([]*domain.InventoryRecord, 0, len(incoming))
	for i := range incoming {
		records = append(records, &incoming[i])
	}

	if err := s.store.ReplaceAll(ctx, records); err != nil {
		return domain.MergeStatistics{}, err
	}
	return domain.MergeStatistics{Added: len(records)}, nil
}

func (s *SyncService) observe(strategy, outcome string, stats domain.MergeStatistics) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveSync(strategy, outcome, stats.Added, stats.Updated, stats.Skipped)
	if n, err := s.store.Count(context.Background()); err == nil {
		s.metrics.RecordCount.Set(float64(n))
	}
}
