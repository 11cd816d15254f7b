package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/storage/memory"
)

func TestInventoryService_CreateGet(t *testing.T) {
	svc := NewInventoryService(memory.New(), nil)
	ctx := context.Background()

	rec := &domain.InventoryRecord{Name: "Salmon", Category: "fish", Quantity: 50, Unit: "kg"}
	if err := svc.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, "salmon", "FISH")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Quantity != 50 {
		t.Errorf("quantity = %d, want 50", got.Quantity)
	}

	if err := svc.Create(ctx, rec); !errors.Is(err, domain.ErrRecordConflict) {
		t.Errorf("duplicate Create() error = %v, want ErrRecordConflict", err)
	}
}

func TestInventoryService_CreateInvalid(t *testing.T) {
	svc := NewInventoryService(memory.New(), nil)

	err := svc.Create(context.Background(), &domain.InventoryRecord{Quantity: -1})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Create(invalid) error = %v, want ErrValidation", err)
	}
}

func TestInventoryService_Update(t *testing.T) {
	svc := NewInventoryService(memory.New(), nil)
	ctx := context.Background()

	rec := &domain.InventoryRecord{Name: "Net", Category: "equipment", Quantity: 10}
	if err := svc.Update(ctx, rec); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}

	svc.Create(ctx, rec)
	rec.Quantity = 12
	if err := svc.Update(ctx, rec); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := svc.Get(ctx, "Net", "equipment")
	if got.Quantity != 12 {
		t.Errorf("quantity = %d, want 12", got.Quantity)
	}
}

func TestInventoryService_Delete(t *testing.T) {
	svc := NewInventoryService(memory.New(), nil)
	ctx := context.Background()

	svc.Create(ctx, &domain.InventoryRecord{Name: "Pelt", Category: "fur", Quantity: 3})
	if err := svc.Delete(ctx, "Pelt", "fur"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, "Pelt", "fur"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	if n, _ := svc.Count(ctx); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}
