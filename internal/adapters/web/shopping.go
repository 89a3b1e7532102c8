package web

import "net/http"

// Shopping endpoints address a week by any day in it (?week=YYYY-MM-DD, default today).

func (h *Handler) generateShopping(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GenerateShoppingList(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) getShopping(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetShoppingList(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) completeShopping(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.CompleteShoppingList(r.Context(), r.URL.Query().Get("week"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) checkShoppingItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Checked bool `json:"checked"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.CheckShoppingItem(r.Context(), id, req.Checked); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
