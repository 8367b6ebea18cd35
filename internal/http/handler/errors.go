package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"noteswift/internal/admin"
	"noteswift/internal/apperr"
	"noteswift/internal/authz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes. 401 and 403 stay
// distinct so clients can tell "log in again" from "you lack permission".
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, apperr.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperr.ErrAlreadyExists):
		http.Error(w, "already exists", http.StatusConflict)
	case errors.Is(err, apperr.ErrProtectedAccount):
		http.Error(w, "protected account", http.StatusConflict)
	case errors.Is(err, apperr.ErrWeakPassword):
		http.Error(w, "weak password", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrRetentionExpired):
		http.Error(w, "retention window expired", http.StatusGone)
	case errors.Is(err, authz.ErrInvalidRole), errors.Is(err, admin.ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
