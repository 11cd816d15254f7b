package handler

import (
	"net/http"

	"github.com/mshears713/HudsonBayOutposts/internal/core/domain"
)

// ListInventory handles GET /inventory.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	records, err := h.inventory.List(r.Context())
	if err != nil {
		h.writeFault(w, err)
		return
	}

	// Non-nil so an empty inventory serializes as [].
	out := make([]domain.InventoryRecord, 0, len(records))
	for _, record := range records {
		out = append(out, *record)
	}
	h.writeJSON(w, http.StatusOK, out)
}

// GetRecord handles GET /inventory/{category}/{name}.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.inventory.Get(r.Context(), r.PathValue("name"), r.PathValue("category"))
	if err != nil {
		h.writeFault(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// CreateRecord handles POST /inventory.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var record domain.InventoryRecord
	if err := decode(r, &record); err != nil {
		h.writeFault(w, err)
		return
	}

	if err := h.inventory.Create(r.Context(), &record); err != nil {
		h.writeFault(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, record)
}

// UpdateRecord handles PUT /inventory/{category}/{name}.
// The path names the record identity; the body carries the new fields.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var record domain.InventoryRecord
	if err := decode(r, &record); err != nil {
		h.writeFault(w, err)
		return
	}
	record.Name = r.PathValue("name")
	record.Category = r.PathValue("category")

	if err := h.inventory.Update(r.Context(), &record); err != nil {
		h.writeFault(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// DeleteRecord handles DELETE /inventory/{category}/{name}.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Delete(r.Context(), r.PathValue("name"), r.PathValue("category")); err != nil {
		h.writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
