package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// recordPrefix namespaces inventory keys inside the Badger keyspace.
const recordPrefix = "record/"

// Default Badger tuning values.
const (
	DefaultGCInterval  = 10 * time.Minute
	DefaultGCThreshold = 0.5
)

// BadgerConfig configures the persistent record store.
type BadgerConfig struct {
	// Dir is the Badger data directory. Required unless InMemory is set.
	Dir string

	// InMemory runs Badger without touching disk. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write. Slower but durable.
	SyncWrites bool

	// GCInterval is the interval between value log GC runs.
	GCInterval time.Duration

	// GCThreshold is the value log rewrite ratio passed to Badger GC.
	GCThreshold float64

	// Logger is the structured logger.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns the default persistent store configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:         dir,
		GCInterval:  DefaultGCInterval,
		GCThreshold: DefaultGCThreshold,
		Logger:      slog.Default(),
	}
}

// BadgerStore implements RecordStore using Badger v3.
type BadgerStore struct {
	db     *badger.DB
	logger *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerStore opens the Badger database and starts background GC.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("storage: dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = DefaultGCInterval
	}
	if cfg.GCThreshold <= 0 {
		cfg.GCThreshold = DefaultGCThreshold
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.InMemory = cfg.InMemory
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = &badgerLogger{logger: cfg.Logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		logger: cfg.Logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go s.gcLoop(cfg.GCInterval, cfg.GCThreshold)

	cfg.Logger.Info("badger store opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"gc_interval", cfg.GCInterval)

	return s, nil
}

// Get retrieves a record by key.
func (s *BadgerStore) Get(_ context.Context, key string) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(recordPrefix + key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrNotFound.WithDetails(key)
			}
			return domain.ErrStorage.WithCause(err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Put stores a record under its key.
func (s *BadgerStore) Put(_ context.Context, record *domain.InventoryRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(recordPrefix+record.Key()), data)
	})
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Delete removes a record.
func (s *BadgerStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		bk := []byte(recordPrefix + key)
		if _, err := txn.Get(bk); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrNotFound.WithDetails(key)
			}
			return domain.ErrStorage.WithCause(err)
		}
		return txn.Delete(bk)
	})
	return err
}

// List returns all records.
func (s *BadgerStore) List(_ context.Context) ([]*domain.InventoryRecord, error) {
	var records []*domain.InventoryRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record domain.InventoryRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return domain.ErrStorage.WithCause(err)
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ReplaceAll atomically discards current contents and stores the given
// records in a single transaction.
func (s *BadgerStore) ReplaceAll(_ context.Context, records []*domain.InventoryRecord) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(recordPrefix+record.Key()), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *BadgerStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	return count, nil
}

// Close stops background GC and closes the database.
func (s *BadgerStore) Close() error {
	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: close badger: %w", err)
	}
	return nil
}

// gcLoop runs periodic value log garbage collection.
func (s *BadgerStore) gcLoop(interval time.Duration, threshold float64) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				err := s.db.RunValueLogGC(threshold)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						s.logger.Warn("badger gc failed", "error", err)
					}
					break
				}
			}
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
