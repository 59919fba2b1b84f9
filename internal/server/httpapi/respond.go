package httpapi

import (
	"encoding/json"
	"net/http"
)

// GeneralError is the single-message error body. Authentication failures
// always use the same message so callers cannot probe for accounts.
type GeneralError struct {
	Message string `json:"message"`
}

// ValidationErrors lists the input problems of a rejected request.
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, GeneralError{Message: "unauthorized"})
}

func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, GeneralError{Message: "internal error"})
}
