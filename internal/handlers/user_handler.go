// File: internal/handlers/user_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appchat/appchat-backend/internal/dtos"
	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// Get returns a user's details. Users may only look up themselves.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, ok := r.Context().Value(middleware.UsernameKey).(string)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	if requester != username {
		writeError(w, "Not authorized to access this user's details", http.StatusForbidden)
		return
	}

	user, err := h.UserService.GetByUsername(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.NewUserRead(user))
}

// Create adds a new user on behalf of an authenticated caller.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.NewUserRead(user))
}
