package domain

import (
	"errors"
	"testing"
)

func TestInventoryRecord_Key(t *testing.T) {
	a := &InventoryRecord{Name: "Net", Category: "equipment"}
	b := &InventoryRecord{Name: "net", Category: "Equipment"}

	if a.Key() != b.Key() {
		t.Errorf("keys differ for same identity: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == RecordKey("Net", "fish") {
		t.Error("different categories must produce different keys")
	}
}

func TestInventoryRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  InventoryRecord
		wantErr bool
	}{
		{
			name:   "valid record",
			record: InventoryRecord{Name: "Salmon", Category: "fish", Quantity: 50, Unit: "kg", Value: 12.5},
		},
		{
			name:    "missing name",
			record:  InventoryRecord{Category: "fish", Quantity: 1},
			wantErr: true,
		},
		{
			name:    "negative quantity",
			record:  InventoryRecord{Name: "Salmon", Quantity: -1},
			wantErr: true,
		},
		{
			name:    "negative value",
			record:  InventoryRecord{Name: "Salmon", Value: -0.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("validation error should be ErrValidation, got %v", err)
			}
		})
	}
}

func TestInventoryRecord_MergeFrom(t *testing.T) {
	target := &InventoryRecord{
		Name: "Net", Category: "equipment",
		Quantity: 10, Unit: "pieces", Value: 4.0, Description: "fishing nets",
	}
	source := &InventoryRecord{
		Name: "Net", Category: "equipment",
		Quantity: 5, Description: "repaired nets",
	}

	target.MergeFrom(source)

	if target.Quantity != 15 {
		t.Errorf("quantity = %d, want 15 (summed)", target.Quantity)
	}
	if target.Unit != "pieces" {
		t.Errorf("unit = %q, empty source field must not supersede", target.Unit)
	}
	if target.Value != 4.0 {
		t.Errorf("value = %v, zero source field must not supersede", target.Value)
	}
	if target.Description != "repaired nets" {
		t.Errorf("description = %q, non-empty source field supersedes", target.Description)
	}
}
