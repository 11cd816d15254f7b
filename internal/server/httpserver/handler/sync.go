package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// Export handles POST /sync/export-inventory.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	payload, err := h.sync.Export(r.Context())
	if err != nil {
		h.writeFault(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

// Import handles POST /sync/import-inventory.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := decode(r, &req); err != nil {
		h.writeFault(w, err)
		return
	}
	// Older clients send the strategy as a query parameter instead of a
	// body field.
	if req.MergeStrategy == "" {
		req.MergeStrategy = r.URL.Query().Get("merge_strategy")
	}

	resp, err := h.sync.Import(r.Context(), &req)
	if err != nil {
		if pe, ok := domain.AsPartialSync(err); ok {
			h.log.Error("import failed partway",
				"source_fort", req.SourceFort,
				"added", pe.Stats.Added,
				"updated", pe.Stats.Updated,
				"skipped", pe.Stats.Skipped,
				"error", pe.Cause)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Error-Code", domain.ErrStorage.Code)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(errorBody{
				Code:    domain.ErrStorage.Code,
				Message: "import failed partway through the payload",
				Details: pe.Error(),
			})
			return
		}
		h.writeFault(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}
