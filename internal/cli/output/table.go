package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	if len(t.Headers) > 0 {
		for i, h := range t.Headers {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, h)
		}
		fmt.Fprintln(tw)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return nil
}

// TableFormatter formats known domain types as ASCII tables. Anything
// it does not recognize falls back to indented JSON.
type TableFormatter struct{}

// Format writes data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *Table:
		return v.Render(w)
	case Table:
		return v.Render(w)
	case []domain.InventoryRecord:
		return recordsTable(v).Render(w)
	case *domain.InventoryRecord:
		return recordsTable([]domain.InventoryRecord{*v}).Render(w)
	case *domain.NodeStatus:
		return statusTable(v).Render(w)
	case *domain.ImportResponse:
		return importTable(v).Render(w)
	case *domain.SyncPayload:
		if err := payloadHeaderTable(v).Render(w); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return recordsTable(v.Inventory).Render(w)
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
}

func recordsTable(records []domain.InventoryRecord) *Table {
	t := &Table{Headers: []string{"NAME", "CATEGORY", "QUANTITY", "UNIT", "VALUE", "DESCRIPTION"}}
	for _, r := range records {
		t.AddRow(
			r.Name,
			dash(r.Category),
			fmt.Sprintf("%d", r.Quantity),
			dash(r.Unit),
			fmt.Sprintf("%.2f", r.Value),
			dash(r.Description),
		)
	}
	return t
}

func statusTable(s *domain.NodeStatus) *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("fort", s.Fort)
	t.AddRow("online", fmt.Sprintf("%t", s.Online))
	t.AddRow("record_count", fmt.Sprintf("%d", s.RecordCount))
	t.AddRow("version", s.Version)
	return t
}

func importTable(r *domain.ImportResponse) *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("status", r.Status)
	t.AddRow("imported_from", r.ImportedFrom)
	t.AddRow("items_added", fmt.Sprintf("%d", r.Statistics.Added))
	t.AddRow("items_updated", fmt.Sprintf("%d", r.Statistics.Updated))
	t.AddRow("items_skipped", fmt.Sprintf("%d", r.Statistics.Skipped))
	return t
}

func payloadHeaderTable(p *domain.SyncPayload) *Table {
	t := &Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("source_fort", p.SourceFort)
	t.AddRow("export_timestamp", p.ExportTimestamp.Format(time.RFC3339))
	t.AddRow("sync_format_version", p.FormatVersion)
	t.AddRow("records", fmt.Sprintf("%d", len(p.Inventory)))
	return t
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
