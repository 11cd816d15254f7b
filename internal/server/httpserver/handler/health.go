package handler

import (
	"net/http"
	"time"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"fort":   h.fort,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	count, err := h.inventory.Count(r.Context())
	if err != nil {
		h.writeFault(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, domain.NodeStatus{
		Fort:        h.fort,
		Online:      true,
		RecordCount: count,
		Version:     h.version,
	})
}
