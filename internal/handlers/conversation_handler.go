// File: internal/handlers/conversation_handler.go
package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/appchat/appchat-backend/internal/dtos"
	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/services"
)

// maxMultipartMemory bounds in-memory multipart parsing; larger parts spill
// to temp files.
const maxMultipartMemory = 32 << 20

type ConversationHandler struct {
	ConversationService *services.ConversationService
	ChatService         *services.ChatService
}

func NewConversationHandler(conversationService *services.ConversationService, chatService *services.ChatService) *ConversationHandler {
	return &ConversationHandler{
		ConversationService: conversationService,
		ChatService:         chatService,
	}
}

// List returns the requester's conversations newest-first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversations, err := h.ConversationService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ConversationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conversation, err := h.ConversationService.Create(r.Context(), userID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversation)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversation, err := h.ConversationService.Get(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

func (h *ConversationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ConversationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conversation, err := h.ConversationService.UpdateTitle(r.Context(), userID, mux.Vars(r)["id"], req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.ConversationService.Delete(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage runs one chat turn: optional text plus zero or more attached
// files, answered by a persisted system message.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conversationID := mux.Vars(r)["id"]

	// Text may arrive as a query parameter or a multipart form field.
	content := r.URL.Query().Get("content")
	var uploads []services.Upload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		if formContent := r.FormValue("content"); formContent != "" {
			content = formContent
		}

		for _, header := range r.MultipartForm.File["files"] {
			upload, err := readUpload(header)
			if err != nil {
				writeError(w, "Could not read uploaded file", http.StatusBadRequest)
				return
			}
			uploads = append(uploads, upload)
		}
	}

	exchange, err := h.ChatService.SendMessage(r.Context(), userID, conversationID, content, uploads)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exchange)
}

func readUpload(header *multipart.FileHeader) (services.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return services.Upload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.Upload{}, err
	}

	return services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
