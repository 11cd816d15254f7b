package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseMergeStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeStrategy
		wantErr bool
	}{
		{"add", StrategyAdd, false},
		{"merge", StrategyMerge, false},
		{"replace", StrategyReplace, false},
		{"Replace", StrategyReplace, false},
		{"overwrite", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMergeStrategy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMergeStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownStrategy) {
				t.Errorf("error should be ErrUnknownStrategy, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMergeStrategy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSyncPayload_Validate(t *testing.T) {
	valid := SyncPayload{
		SourceFort:      "fishing_fort",
		ExportTimestamp: time.Now(),
		FormatVersion:   SyncFormatVersion,
		Inventory:       []InventoryRecord{},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SyncPayload)
		field  string
	}{
		{"missing source", func(p *SyncPayload) { p.SourceFort = "" }, "source_fort"},
		{"missing timestamp", func(p *SyncPayload) { p.ExportTimestamp = time.Time{} }, "export_timestamp"},
		{"missing version", func(p *SyncPayload) { p.FormatVersion = "" }, "sync_format_version"},
		{"missing inventory", func(p *SyncPayload) { p.Inventory = nil }, "inventory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := p.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("error should be ErrMalformedPayload, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name missing field %q", err.Error(), tt.field)
			}
		})
	}
}

func TestSyncPayload_WireFormat(t *testing.T) {
	raw := `{
		"source_fort": "fishing_fort",
		"export_timestamp": "2026-08-30T12:00:00Z",
		"sync_format_version": "1.0",
		"inventory": [
			{"name":"Salmon","category":"fish","quantity":50,"unit":"kg","value":12.5,"description":""}
		]
	}`

	var p SyncPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.SourceFort != "fishing_fort" || len(p.Inventory) != 1 {
		t.Errorf("payload = %+v, wire fields not mapped", p)
	}
	if p.Inventory[0].Name != "Salmon" || p.Inventory[0].Quantity != 50 {
		t.Errorf("record = %+v, wire fields not mapped", p.Inventory[0])
	}

	// Absent inventory field must decode to nil and fail validation.
	var missing SyncPayload
	noInv := `{"source_fort":"x","export_timestamp":"2026-08-30T12:00:00Z","sync_format_version":"1.0"}`
	if err := json.Unmarshal([]byte(noInv), &missing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if missing.Inventory != nil {
		t.Error("absent inventory should decode to nil slice")
	}
	if err := missing.Validate(); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("missing inventory should be a protocol fault, got %v", err)
	}
}

func TestMergeStatistics_Total(t *testing.T) {
	s := MergeStatistics{Added: 3, Updated: 2, Skipped: 1}
	if s.Total() != 6 {
		t.Errorf("Total() = %d, want 6", s.Total())
	}
}

func TestSessionToken_Expired(t *testing.T) {
	now := time.Now()
	tok := SessionToken{
		Value:     TokenPrefix + "abc",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}

	if tok.Expired(now) {
		t.Error("token should not be expired before its expiry")
	}
	if !tok.Expired(now.Add(time.Hour)) {
		t.Error("token should be expired at its expiry instant")
	}
	if tok.TTL(now) != time.Hour {
		t.Errorf("TTL = %v, want 1h", tok.TTL(now))
	}
	if tok.TTL(now.Add(2*time.Hour)) != 0 {
		t.Error("TTL after expiry should be 0")
	}
}
