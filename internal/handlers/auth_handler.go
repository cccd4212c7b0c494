// File: internal/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/appchat/appchat-backend/internal/dtos"
	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	if !ok {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.NewUserRead(user))
}

// Login verifies credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, ok := credentials(r)
	if !ok {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.UserService.Login(r.Context(), username, password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.NewToken(token))
}

// Me resolves the bearer token back to the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := r.Context().Value(middleware.UsernameKey).(string)
	if !ok || username == "" {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewUserRead(user))
}

// credentials reads a username/password pair from a JSON body or, for
// OAuth2-style clients, from form data.
func credentials(r *http.Request) (username, password string, ok bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req dtos.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", false
		}
		username, password = req.Username, req.Password
	} else {
		if err := r.ParseForm(); err != nil {
			return "", "", false
		}
		username = r.FormValue("username")
		password = r.FormValue("password")
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}
