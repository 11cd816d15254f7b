package client

import (
	"context"
	"sync"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// SyncState is the phase of a synchronization run.
type SyncState string

const (
	SyncIdle      SyncState = "idle"
	SyncExporting SyncState = "exporting"
	SyncImporting SyncState = "importing"
	SyncCompleted SyncState = "completed"
	SyncFailed    SyncState = "failed"
)

// SyncRunner drives one-directional inventory synchronization from a
// source outpost to a target outpost.
//
// A run moves through exporting and importing; any fault before the
// import request reaches the target leaves the target untouched.
type SyncRunner struct {
	source        *Client
	sourceSession *SessionManager
	target        *Client
	targetSession *SessionManager
	cache         *ResponseCache
	log           logger.Logger

	mu    sync.RWMutex
	state SyncState
}

// NewSyncRunner creates a runner between two authenticated outposts.
// The cache may be nil; when set, a completed import invalidates the
// target's cached reads.
func NewSyncRunner(source *Client, sourceSession *SessionManager, target *Client, targetSession *SessionManager, cache *ResponseCache, log logger.Logger) *SyncRunner {
	if log == nil {
		log = logger.Default()
	}
	return &SyncRunner{
		source:        source,
		sourceSession: sourceSession,
		target:        target,
		targetSession: targetSession,
		cache:         cache,
		log:           log,
		state:         SyncIdle,
	}
}

// State returns the current run phase.
func (r *SyncRunner) State() SyncState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *SyncRunner) setState(s SyncState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run exports the source inventory and imports it into the target
// under the given merge strategy.
func (r *SyncRunner) Run(ctx context.Context, strategy domain.MergeStrategy) (*domain.ImportResponse, error) {
	if _, err := domain.ParseMergeStrategy(string(strategy)); err != nil {
		return nil, err
	}

	sourceBearer, err := r.sourceSession.Bearer()
	if err != nil {
		return nil, err
	}
	targetBearer, err := r.targetSession.Bearer()
	if err != nil {
		return nil, err
	}

	r.setState(SyncExporting)
	r.log.Info("sync export started",
		"source", r.source.BaseURL(),
		"target", r.target.BaseURL(),
		"strategy", string(strategy))

	payload, err := r.source.ExportInventory(ctx, sourceBearer)
	if err != nil {
		r.setState(SyncFailed)
		r.log.Error("sync export failed", "source", r.source.BaseURL(), "error", err.Error())
		return nil, err
	}

	r.setState(SyncImporting)
	resp, err := r.target.ImportInventory(ctx, targetBearer, &domain.ImportRequest{
		SyncPayload:   *payload,
		MergeStrategy: string(strategy),
	})
	if err != nil {
		r.setState(SyncFailed)
		r.log.Error("sync import failed", "target", r.target.BaseURL(), "error", err.Error())
		return nil, err
	}

	// Cached reads of the target are stale after a successful import.
	if r.cache != nil {
		r.cache.Invalidate(r.target.BaseURL())
	}

	r.setState(SyncCompleted)
	r.log.Info("sync completed",
		"source", payload.SourceFort,
		"target", r.target.BaseURL(),
		"added", resp.Statistics.Added,
		"updated", resp.Statistics.Updated,
		"skipped", resp.Statistics.Skipped)
	return resp, nil
}
