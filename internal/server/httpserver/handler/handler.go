// Package handler provides the HTTP request handlers for an outpost
// node: login, inventory management and the sync endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
	"github.com/mshears713/HudsonBayOutposts/internal/core/service"
	"github.com/mshears713/HudsonBayOutposts/internal/telemetry/logger"
)

// Handler holds the services backing the outpost API.
type Handler struct {
	auth      *service.AuthService
	inventory *service.InventoryService
	sync      *service.SyncService
	fort      string
	version   string
	log       logger.Logger
}

// New creates a Handler over the given services.
func New(auth *service.AuthService, inventory *service.InventoryService, sync *service.SyncService, fort, version string, log logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{
		auth:      auth,
		inventory: inventory,
		sync:      sync,
		fort:      fort,
		version:   version,
		log:       log,
	}
}

// writeJSON writes a JSON response body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

// errorBody is the wire shape of an error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteFault writes a classified error as a JSON error response.
// Unclassified errors become a generic 500.
func WriteFault(w http.ResponseWriter, log logger.Logger, err error) {
	var fe *domain.FaultError
	if !errors.As(err, &fe) {
		if log != nil {
			log.Error("internal error", "error", err)
		}
		fe = domain.ErrServerFault
	}

	status := fe.StatusCode
	if status < 400 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", fe.Code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{
		Code:    fe.Code,
		Message: fe.Message,
		Details: fe.Details,
	})
}

// writeFault writes an error response using the handler's logger.
func (h *Handler) writeFault(w http.ResponseWriter, err error) {
	WriteFault(w, h.log, err)
}

// decode reads a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrBadRequest.WithDetails("invalid JSON body").WithCause(err)
	}
	return nil
}
