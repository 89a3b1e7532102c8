package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"mealplanner/internal/app"
	"mealplanner/internal/logger"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	log    *logrus.Logger
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
// extra is mounted as-is on the root router (e.g. "/metrics").
func NewHandler(svc app.ApplicationService, allowedOrigins string, log *logrus.Logger, extra map[string]http.Handler) http.Handler {
	h := &Handler{svc: svc, log: logger.OrDiscard(log)}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.log))
	r.Use(Recoverer(h.log))
	r.Use(CORS(allowedOrigins))

	for pattern, handler := range extra {
		r.Handle(pattern, handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/health", h.health)

		// ── Catalog ──────────────────────────────────────────────────────────
		r.Get("/units", h.listUnits)
		r.Post("/units/reload", h.reloadUnits)
		r.Get("/ingredients", h.listIngredients)
		r.Get("/recipes", h.listRecipes)
		r.Post("/recipes", h.importRecipe)
		r.Get("/recipes/{id}", h.getRecipe)

		// ── Meals ────────────────────────────────────────────────────────────
		r.Get("/meals", h.listMeals)
		r.Post("/meals", h.addMeal)
		r.Get("/meals/{id}", h.getMeal)
		r.Post("/meals/{id}/prepare", h.prepareMeal)
		r.Patch("/meals/{id}/servings", h.updateServings)
		r.Delete("/meals/{id}", h.removeMeal)
		r.Post("/meals/sweep", h.sweep)

		// ── Stock ────────────────────────────────────────────────────────────
		r.Get("/stock", h.listStock)
		r.Put("/stock", h.setStock)
		r.Post("/stock/adjust", h.adjustStock)
		r.Delete("/stock/{ingredient}", h.removeStock)
		r.Get("/stock/{ingredient}/movements", h.stockMovements)

		// ── Shopping ─────────────────────────────────────────────────────────
		r.Post("/shopping", h.generateShopping)
		r.Get("/shopping", h.getShopping)
		r.Post("/shopping/complete", h.completeShopping)
		r.Patch("/shopping/items/{id}", h.checkShoppingItem)
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		Units  int    `json:"units"`
	}
	units, err := h.svc.ListUnits(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Status: "ok", Units: len(units.Units)})
}

// idParam parses the {id} URL parameter, writing a 400 when it is not a positive integer.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id "+strconv.Quote(chi.URLParam(r, "id")), "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
