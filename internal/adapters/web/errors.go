package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"mealplanner/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// errorStatus maps a domain error to its code and HTTP status.
func errorStatus(err error) (string, int) {
	switch {
	case errors.Is(err, core.ErrInvalidServings):
		return "INVALID_SERVINGS", http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownUnit):
		return "UNKNOWN_UNIT", http.StatusBadRequest
	case errors.Is(err, core.ErrIncompatibleUnit):
		return "INCOMPATIBLE_UNIT", http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidInput):
		return "BAD_REQUEST", http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return "NOT_FOUND", http.StatusNotFound
	}
	return "INTERNAL_ERROR", http.StatusInternalServerError
}

// fail writes err as a JSON error. Internal errors are logged and their text withheld.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithError(err).WithField("request_id", requestIDFromContext(r.Context())).Error("request failed")
		msg = "internal server error"
	}
	writeError(w, r, msg, code, status)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
