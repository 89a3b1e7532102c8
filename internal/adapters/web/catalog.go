package web

import (
	"net/http"

	"mealplanner/internal/core"
)

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListUnits(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) reloadUnits(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ReloadUnits(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listIngredients(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListIngredients(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// listRecipes accepts an optional ?q= name filter.
func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListRecipes(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) importRecipe(w http.ResponseWriter, r *http.Request) {
	var req core.RecipeImport
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ImportRecipe(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
