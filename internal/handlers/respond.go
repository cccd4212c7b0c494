// File: internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/appchat/appchat-backend/internal/services"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service sentinel errors onto HTTP status codes.
// Unknown errors are logged with detail and returned as a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		writeError(w, "Not authorized", http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		writeError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmptyFile),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrUnsupportedExtension):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[Handler] internal error: %v", err)
		writeError(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
