package domain

import "strings"

// Record field constraints.
const (
	MaxRecordNameLength        = 128
	MaxRecordCategoryLength    = 64
	MaxRecordUnitLength        = 32
	MaxRecordDescriptionLength = 1024
)

// InventoryRecord represents one stocked item at an outpost.
//
// The pair (Name, Category) is the record's identity key: merge
// strategies match source records against target records by it.
type InventoryRecord struct {
	// Name is the item name (e.g., "Salmon", "Beaver Pelt").
	Name string `json:"name"`

	// Category groups items (e.g., "fish", "equipment", "provisions").
	Category string `json:"category"`

	// Quantity is the stocked amount. Never negative.
	Quantity int `json:"quantity"`

	// Unit is the quantity unit (e.g., "kg", "pieces").
	Unit string `json:"unit"`

	// Value is the monetary value per unit. Never negative.
	Value float64 `json:"value"`

	// Description is free-text notes.
	Description string `json:"description"`
}

// Key returns the identity key used for merge matching.
func (r *InventoryRecord) Key() string {
	return RecordKey(r.Name, r.Category)
}

// RecordKey builds the identity key for a name/category pair.
func RecordKey(name, category string) string {
	return strings.ToLower(name) + "::" + strings.ToLower(category)
}

// Validate validates the record fields against constraints.
func (r *InventoryRecord) Validate() error {
	var violations []string

	if r.Name == "" {
		violations = append(violations, "name is required")
	}
	if len(r.Name) > MaxRecordNameLength {
		violations = append(violations, "name exceeds 128 characters")
	}
	if len(r.Category) > MaxRecordCategoryLength {
		violations = append(violations, "category exceeds 64 characters")
	}
	if len(r.Unit) > MaxRecordUnitLength {
		violations = append(violations, "unit exceeds 32 characters")
	}
	if len(r.Description) > MaxRecordDescriptionLength {
		violations = append(violations, "description exceeds 1024 characters")
	}
	if r.Quantity < 0 {
		violations = append(violations, "quantity must not be negative")
	}
	if r.Value < 0 {
		violations = append(violations, "value must not be negative")
	}

	if len(violations) > 0 {
		return ErrValidation.WithDetails(strings.Join(violations, "; "))
	}
	return nil
}

// Clone returns a copy of the record.
func (r *InventoryRecord) Clone() *InventoryRecord {
	clone := *r
	return &clone
}

// MergeFrom folds a source record into the target: quantities are
// summed; other fields keep the target's value unless the source
// carries a non-empty (or non-zero, for Value) replacement.
//
// Quantity summation is the only guaranteed merge rule; the
// source-supersedes-when-set policy for the remaining fields is a
// deliberate choice and documented in DESIGN.md.
func (r *InventoryRecord) MergeFrom(src *InventoryRecord) {
	r.Quantity += src.Quantity
	if src.Unit != "" {
		r.Unit = src.Unit
	}
	if src.Value != 0 {
		r.Value = src.Value
	}
	if src.Description != "" {
		r.Description = src.Description
	}
}
