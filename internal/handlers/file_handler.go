// File: internal/handlers/file_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/services"
)

type FileHandler struct {
	FileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{FileService: fileService}
}

// Upload stores a standalone file and records its metadata. The blob comes
// as multipart field "file"; conversation_id and optional message_id arrive
// as query or form parameters.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	conversationID := r.FormValue("conversation_id")
	if conversationID == "" {
		conversationID = r.URL.Query().Get("conversation_id")
	}
	if conversationID == "" {
		writeError(w, "conversation_id is required", http.StatusBadRequest)
		return
	}

	var messageID *string
	if id := r.FormValue("message_id"); id != "" {
		messageID = &id
	} else if id := r.URL.Query().Get("message_id"); id != "" {
		messageID = &id
	}

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		writeError(w, "file is required", http.StatusBadRequest)
		return
	}

	upload, err := readUpload(headers[0])
	if err != nil {
		writeError(w, "Could not read uploaded file", http.StatusBadRequest)
		return
	}

	file, err := h.FileService.Upload(r.Context(), userID, conversationID, messageID,
		upload.Filename, upload.Data, upload.ContentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

// ListByConversation returns a conversation's files newest-first.
func (h *FileHandler) ListByConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	files, err := h.FileService.ListByConversation(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}
