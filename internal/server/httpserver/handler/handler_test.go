package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

func TestWriteFault(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "HB-CLI-4040",
		},
		{
			name:       "conflict",
			err:        domain.ErrRecordConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "HB-CLI-4090",
		},
		{
			name:       "validation",
			err:        domain.ErrValidation.WithDetails("name is required"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "HB-CLI-4220",
		},
		{
			name:       "protocol fault",
			err:        domain.ErrMalformedPayload,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "HB-SYN-0001",
		},
		{
			name:       "wrapped fault",
			err:        &domain.PartialSyncError{Cause: domain.ErrStorage},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "HB-SRV-5001",
		},
		{
			name:       "unclassified error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "HB-SRV-5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteFault(rec, nil, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("X-Error-Code"); got != tt.wantCode {
				t.Errorf("X-Error-Code = %q, want %q", got, tt.wantCode)
			}

			var body struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("body code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Message == "" {
				t.Error("body message should not be empty")
			}
		})
	}
}

func TestWriteFaultDetailsOnWire(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteFault(rec, nil, domain.ErrValidation.WithDetails("quantity must not be negative"))

	var body struct {
		Details string `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Details, "quantity") {
		t.Errorf("details = %q, should carry the validation detail", body.Details)
	}
}

func TestDecodeRejectsBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/inventory", strings.NewReader("{not json"))

	var record domain.InventoryRecord
	err := decode(req, &record)
	if err == nil {
		t.Fatal("decode should fail on malformed JSON")
	}
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
}
