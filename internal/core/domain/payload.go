package domain

import (
	"strings"
	"time"
)

// SyncFormatVersion is the payload format version tag this build
// produces and accepts.
const SyncFormatVersion = "1.0"

// MergeStrategy is the per-record conflict-resolution rule applied
// during import.
type MergeStrategy string

const (
	// StrategyAdd creates records only where no identity match exists;
	// existing records are never mutated.
	StrategyAdd MergeStrategy = "add"

	// StrategyMerge sums quantities on match and creates on no match.
	StrategyMerge MergeStrategy = "merge"

	// StrategyReplace overwrites (or creates) the target record with
	// the source's full field set.
	StrategyReplace MergeStrategy = "replace"
)

// ParseMergeStrategy validates a wire strategy value.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(strings.ToLower(s)) {
	case StrategyAdd:
		return StrategyAdd, nil
	case StrategyMerge:
		return StrategyMerge, nil
	case StrategyReplace:
		return StrategyReplace, nil
	}
	return "", ErrUnknownStrategy.WithDetails("merge_strategy " + s)
}

// SyncPayload is the export envelope moved between outposts.
// Immutable once produced; field names are wire-significant.
type SyncPayload struct {
	// SourceFort identifies the exporting outpost.
	SourceFort string `json:"source_fort"`

	// ExportTimestamp is when the export was taken (ISO-8601 on the wire).
	ExportTimestamp time.Time `json:"export_timestamp"`

	// FormatVersion tags the payload format.
	FormatVersion string `json:"sync_format_version"`

	// Inventory is the ordered full record set of the source.
	Inventory []InventoryRecord `json:"inventory"`
}

// Validate checks the payload's structure. A nil Inventory means the
// field was absent from the wire envelope, which is a protocol fault;
// an empty record list is valid.
func (p *SyncPayload) Validate() error {
	var missing []string

	if p.SourceFort == "" {
		missing = append(missing, "source_fort")
	}
	if p.ExportTimestamp.IsZero() {
		missing = append(missing, "export_timestamp")
	}
	if p.FormatVersion == "" {
		missing = append(missing, "sync_format_version")
	}
	if p.Inventory == nil {
		missing = append(missing, "inventory")
	}

	if len(missing) > 0 {
		return ErrMalformedPayload.WithDetails("missing fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// MergeStatistics summarizes one import call. Every payload record
// contributes to exactly one counter, so the three always sum to the
// payload's record count. Never mutated after return.
type MergeStatistics struct {
	Added   int `json:"items_added"`
	Updated int `json:"items_updated"`
	Skipped int `json:"items_skipped"`
}

// Total returns the number of records accounted for.
func (s MergeStatistics) Total() int {
	return s.Added + s.Updated + s.Skipped
}

// ImportRequest is the wire envelope accepted by the import endpoint:
// the export payload plus the chosen merge strategy.
type ImportRequest struct {
	SyncPayload
	MergeStrategy string `json:"merge_strategy"`
}

// ImportResponse is the wire response of the import endpoint.
type ImportResponse struct {
	Status       string          `json:"status"`
	ImportedFrom string          `json:"imported_from"`
	Statistics   MergeStatistics `json:"statistics"`
}
