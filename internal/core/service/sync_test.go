package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/storage"
	"github.com/mshears713/HudsonBayOutposts/internal/storage/memory"
)

func validPayload(source string, inventory []domain.InventoryRecord) domain.SyncPayload {
	return domain.SyncPayload{
		SourceFort:      source,
		ExportTimestamp: time.Now().UTC(),
		FormatVersion:   domain.SyncFormatVersion,
		Inventory:       inventory,
	}
}

func TestExport(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.Put(ctx, &domain.InventoryRecord{Name: "Salmon", Category: "fish", Quantity: 50})

	svc := NewSyncService(store, "fishing_fort", nil, nil)
	payload, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if payload.SourceFort != "fishing_fort" {
		t.Errorf("source_fort = %q, want fishing_fort", payload.SourceFort)
	}
	if payload.FormatVersion != domain.SyncFormatVersion {
		t.Errorf("version = %q, want %q", payload.FormatVersion, domain.SyncFormatVersion)
	}
	if payload.ExportTimestamp.IsZero() {
		t.Error("export timestamp must be set")
	}
	if len(payload.Inventory) != 1 || payload.Inventory[0].Name != "Salmon" {
		t.Errorf("inventory = %+v", payload.Inventory)
	}
	if err := payload.Validate(); err != nil {
		t.Errorf("exported payload should validate: %v", err)
	}
}

func TestExport_EmptyInventory(t *testing.T) {
	svc := NewSyncService(memory.New(), "hunting_fort", nil, nil)

	payload, err := svc.Export(context.Background())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if payload.Inventory == nil {
		t.Error("empty inventory must still serialize as a present field")
	}
	if len(payload.Inventory) != 0 {
		t.Errorf("inventory length = %d, want 0", len(payload.Inventory))
	}
}

func TestImport_AddStrategy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10})

	svc := NewSyncService(store, "trading_fort", nil, nil)
	resp, err := svc.Import(ctx, &domain.ImportRequest{
		SyncPayload: validPayload("fishing_fort", []domain.InventoryRecord{
			{Name: "Net", Category: "equipment", Quantity: 5},
			{Name: "Hook", Category: "equipment", Quantity: 25},
		}),
		MergeStrategy: "add",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if resp.Status != "success" || resp.ImportedFrom != "fishing_fort" {
		t.Errorf("response = %+v", resp)
	}
	if resp.Statistics.Added != 1 || resp.Statistics.Skipped != 1 || resp.Statistics.Updated != 0 {
		t.Errorf("stats = %+v, want 1 added, 1 skipped", resp.Statistics)
	}

	// Existing record untouched under add.
	net, _ := store.Get(ctx, domain.RecordKey("Net", "equipment"))
	if net.Quantity != 10 {
		t.Errorf("net quantity = %d, want 10 untouched", net.Quantity)
	}
}

func TestImport_MergeStrategy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10, Unit: "pieces"})

	svc := NewSyncService(store, "trading_fort", nil, nil)
	resp, err := svc.Import(ctx, &domain.ImportRequest{
		SyncPayload: validPayload("fishing_fort", []domain.InventoryRecord{
			{Name: "Net", Category: "equipment", Quantity: 5},
			{Name: "Hook", Category: "equipment", Quantity: 25},
		}),
		MergeStrategy: "merge",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if resp.Statistics.Added != 1 || resp.Statistics.Updated != 1 {
		t.Errorf("stats = %+v, want 1 added, 1 updated", resp.Statistics)
	}

	net, _ := store.Get(ctx, domain.RecordKey("Net", "equipment"))
	if net.Quantity != 15 {
		t.Errorf("net quantity = %d, want 15 (10 local + 5 incoming)", net.Quantity)
	}
	if net.Unit != "pieces" {
		t.Errorf("net unit = %q, unset incoming field must not clobber", net.Unit)
	}

	hook, err := store.Get(ctx, domain.RecordKey("Hook", "equipment"))
	if err != nil {
		t.Fatalf("hook should have been added: %v", err)
	}
	if hook.Quantity != 25 {
		t.Errorf("hook quantity = %d, want 25", hook.Quantity)
	}
}

func TestImport_ReplaceStrategy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10})
	store.Put(ctx, &domain.InventoryRecord{Name: "Pelt", Category: "fur", Quantity: 3})

	svc := NewSyncService(store, "trading_fort", nil, nil)
	resp, err := svc.Import(ctx, &domain.ImportRequest{
		SyncPayload: validPayload("fishing_fort", []domain.InventoryRecord{
			{Name: "Salmon", Category: "fish", Quantity: 50},
		}),
		MergeStrategy: "replace",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if resp.Statistics.Added != 1 {
		t.Errorf("stats = %+v, want 1 added", resp.Statistics)
	}

	records, _ := store.List(ctx)
	if len(records) != 1 || records[0].Name != "Salmon" {
		t.Errorf("store contents = %+v, want only incoming inventory", records)
	}
}

func TestImport_ProtocolFaultsBeforeMutation(t *testing.T) {
	tests := []struct {
		name    string
		req     func() *domain.ImportRequest
		wantErr *domain.FaultError
	}{
		{
			name: "missing source fort",
			req: func() *domain.ImportRequest {
				p := validPayload("", nil)
				p.Inventory = []domain.InventoryRecord{}
				return &domain.ImportRequest{SyncPayload: p, MergeStrategy: "add"}
			},
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name: "missing inventory field",
			req: func() *domain.ImportRequest {
				p := validPayload("fishing_fort", nil)
				return &domain.ImportRequest{SyncPayload: p, MergeStrategy: "add"}
			},
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name: "version mismatch",
			req: func() *domain.ImportRequest {
				p := validPayload("fishing_fort", []domain.InventoryRecord{})
				p.FormatVersion = "9.9"
				return &domain.ImportRequest{SyncPayload: p, MergeStrategy: "add"}
			},
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name: "unknown strategy",
			req: func() *domain.ImportRequest {
				p := validPayload("fishing_fort", []domain.InventoryRecord{})
				return &domain.ImportRequest{SyncPayload: p, MergeStrategy: "overwrite"}
			},
			wantErr: domain.ErrUnknownStrategy,
		},
		{
			name: "invalid record in payload",
			req: func() *domain.ImportRequest {
				p := validPayload("fishing_fort", []domain.InventoryRecord{
					{Name: "Good", Category: "fish", Quantity: 1},
					{Name: "", Quantity: -5},
				})
				return &domain.ImportRequest{SyncPayload: p, MergeStrategy: "add"}
			},
			wantErr: domain.ErrMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			ctx := context.Background()
			store.Put(ctx, &domain.InventoryRecord{Name: "Sentinel", Category: "misc", Quantity: 1})

			svc := NewSyncService(store, "trading_fort", nil, nil)
			_, err := svc.Import(ctx, tt.req())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Import() error = %v, want %v", err, tt.wantErr)
			}

			// No mutation on protocol faults.
			if n, _ := store.Count(ctx); n != 1 {
				t.Errorf("store count = %d, protocol fault must not mutate", n)
			}
			got, _ := store.Get(ctx, domain.RecordKey("Sentinel", "misc"))
			if got == nil || got.Quantity != 1 {
				t.Error("sentinel record was disturbed by a failed import")
			}
		})
	}
}

// faultyStore wraps a RecordStore and fails writes after a budget of
// successful puts.
type faultyStore struct {
	storage.RecordStore
	remaining int
}

func (f *faultyStore) Put(ctx context.Context, record *domain.InventoryRecord) error {
	if f.remaining <= 0 {
		return domain.ErrStorage.WithDetails("disk full")
	}
	f.remaining--
	return f.RecordStore.Put(ctx, record)
}

func TestImport_PartialSyncError(t *testing.T) {
	store := &faultyStore{RecordStore: memory.New(), remaining: 1}
	svc := NewSyncService(store, "trading_fort", nil, nil)

	_, err := svc.Import(context.Background(), &domain.ImportRequest{
		SyncPayload: validPayload("fishing_fort", []domain.InventoryRecord{
			{Name: "A", Category: "misc", Quantity: 1},
			{Name: "B", Category: "misc", Quantity: 2},
		}),
		MergeStrategy: "add",
	})

	pe, ok := domain.AsPartialSync(err)
	if !ok {
		t.Fatalf("Import() error = %v, want PartialSyncError", err)
	}
	if pe.Stats.Added != 1 {
		t.Errorf("partial stats = %+v, want 1 added before the failure", pe.Stats)
	}
	if !errors.Is(err, domain.ErrStorage) {
		t.Error("underlying storage fault should remain in the chain")
	}
}

// blindStore wraps a RecordStore whose lookups fail outright.
type blindStore struct {
	storage.RecordStore
}

func (b *blindStore) Get(context.Context, string) (*domain.InventoryRecord, error) {
	return nil, domain.ErrStorage.WithDetails("read timed out")
}

func TestImport_LookupFailureIsNotAbsence(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	inner.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10})

	for _, strategy := range []string{"add", "merge"} {
		t.Run(strategy, func(t *testing.T) {
			svc := NewSyncService(&blindStore{RecordStore: inner}, "trading_fort", nil, nil)
			_, err := svc.Import(ctx, &domain.ImportRequest{
				SyncPayload: validPayload("fishing_fort", []domain.InventoryRecord{
					{Name: "Net", Category: "equipment", Quantity: 5},
				}),
				MergeStrategy: strategy,
			})

			pe, ok := domain.AsPartialSync(err)
			if !ok {
				t.Fatalf("Import() error = %v, want PartialSyncError", err)
			}
			if pe.Stats.Added != 0 || pe.Stats.Updated != 0 {
				t.Errorf("partial stats = %+v, failed lookup must not count", pe.Stats)
			}
			if !errors.Is(err, domain.ErrStorage) {
				t.Error("lookup fault should remain in the chain")
			}

			// The record the lookup could not see must survive.
			net, err := inner.Get(ctx, domain.RecordKey("Net", "equipment"))
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if net.Quantity != 10 {
				t.Errorf("net quantity = %d, want 10 untouched", net.Quantity)
			}
		})
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()

	fishing := memory.New()
	fishing.Put(ctx, &domain.InventoryRecord{Name: "Salmon", Category: "fish", Quantity: 50, Unit: "kg"})
	fishing.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 5})

	trading := memory.New()
	trading.Put(ctx, &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10})

	exporter := NewSyncService(fishing, "fishing_fort", nil, nil)
	importer := NewSyncService(trading, "trading_fort", nil, nil)

	payload, err := exporter.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	resp, err := importer.Import(ctx, &domain.ImportRequest{
		SyncPayload:   *payload,
		MergeStrategy: "merge",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if resp.Statistics.Added != 1 || resp.Statistics.Updated != 1 {
		t.Errorf("stats = %+v, want 1 added (Salmon), 1 updated (Net)", resp.Statistics)
	}

	net, _ := trading.Get(ctx, domain.RecordKey("Net", "equipment"))
	if net.Quantity != 15 {
		t.Errorf("net quantity = %d, want 15", net.Quantity)
	}
}
