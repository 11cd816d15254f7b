package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

const stubToken = "hbtk_cli_test_token"

// outpostStub is a minimal outpost API for command tests.
type outpostStub struct {
	fort   string
	server *httptest.Server

	mu      sync.Mutex
	records map[string]domain.InventoryRecord

	lastImport     *domain.ImportRequest
	statusRequests int
	listRequests   int
}

func newOutpostStub(t *testing.T, fort string) *outpostStub {
	t.Helper()

	stub := &outpostStub{
		fort:    fort,
		records: make(map[string]domain.InventoryRecord),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "beaver-pelts" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{
				"code": "HB-CLI-4010", "message": "authentication required",
			})
			return
		}
		json.NewEncoder(w).Encode(domain.LoginResponse{
			AccessToken: stubToken,
			TokenType:   "bearer",
			ExpiresIn:   1800,
		})
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.statusRequests++
		count := len(stub.records)
		stub.mu.Unlock()
		json.NewEncoder(w).Encode(domain.NodeStatus{
			Fort: fort, Online: true, RecordCount: count, Version: "1.0.0",
		})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+stubToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /inventory", authed(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.listRequests++
		out := make([]domain.InventoryRecord, 0, len(stub.records))
		for _, rec := range stub.records {
			out = append(out, rec)
		}
		stub.mu.Unlock()
		json.NewEncoder(w).Encode(out)
	}))

	mux.HandleFunc("POST /inventory", authed(func(w http.ResponseWriter, r *http.Request) {
		var rec domain.InventoryRecord
		json.NewDecoder(r.Body).Decode(&rec)
		stub.mu.Lock()
		stub.records[rec.Key()] = rec
		stub.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	}))

	mux.HandleFunc("POST /sync/export-inventory", authed(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		inventory := make([]domain.InventoryRecord, 0, len(stub.records))
		for _, rec := range stub.records {
			inventory = append(inventory, rec)
		}
		stub.mu.Unlock()
		json.NewEncoder(w).Encode(domain.SyncPayload{
			SourceFort:      fort,
			ExportTimestamp: time.Now().UTC(),
			FormatVersion:   domain.SyncFormatVersion,
			Inventory:       inventory,
		})
	}))

	mux.HandleFunc("POST /sync/import-inventory", authed(func(w http.ResponseWriter, r *http.Request) {
		var req domain.ImportRequest
		json.NewDecoder(r.Body).Decode(&req)
		stub.mu.Lock()
		stub.lastImport = &req
		added := 0
		for _, rec := range req.Inventory {
			if _, ok := stub.records[rec.Key()]; !ok {
				stub.records[rec.Key()] = rec
				added++
			}
		}
		stub.mu.Unlock()
		json.NewEncoder(w).Encode(domain.ImportResponse{
			Status:       "success",
			ImportedFrom: req.SourceFort,
			Statistics:   domain.MergeStatistics{Added: added, Skipped: len(req.Inventory) - added},
		})
	}))

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *outpostStub) addr() string {
	return strings.TrimPrefix(s.server.URL, "http://")
}

// runApp runs outpost-cli with the given arguments and captures stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	configPath := filepath.Join(t.TempDir(), "cli.yaml")
	full := append([]string{"outpost-cli", "--config", configPath}, args...)
	err := app.Run(full)
	return buf.String(), err
}
