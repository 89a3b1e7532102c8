package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mealplanner/internal/app"
)

func (h *Handler) listStock(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetStock(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) setStock(w http.ResponseWriter, r *http.Request) {
	var req app.SetStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SetStock(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req app.AdjustStockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AdjustStock(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// removeStock and stockMovements take an ingredient ID or name in the path.
func (h *Handler) removeStock(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveStock(r.Context(), chi.URLParam(r, "ingredient")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stockMovements(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.StockMovements(r.Context(), chi.URLParam(r, "ingredient"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
