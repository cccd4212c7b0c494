// File: internal/services/file_service.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
	"github.com/appchat/appchat-backend/internal/services/csvsum"
	"github.com/appchat/appchat-backend/internal/services/storage"
)

// allowedExtensions is the upload whitelist. Note .gif is classified as an
// image by DetectFileType but is not accepted for upload.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".csv":  true,
}

// FileService validates uploads, pushes blobs to object storage and records
// their metadata.
type FileService struct {
	fileRepo     repository.FileRepository
	conversation *ConversationService
	storage      storage.Provider
	maxSize      int64
	logger       Logger
}

func NewFileService(
	fileRepo repository.FileRepository,
	conversation *ConversationService,
	store storage.Provider,
	maxSize int64,
	logger Logger,
) *FileService {
	return &FileService{
		fileRepo:     fileRepo,
		conversation: conversation,
		storage:      store,
		maxSize:      maxSize,
		logger:       logger,
	}
}

// Validate rejects empty, oversized or unsupported payloads. It runs before
// any storage write.
func (s *FileService) Validate(filename string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	if int64(len(data)) > s.maxSize {
		return fmt.Errorf("%w: %s is %.2fMB, maximum is %.0fMB",
			ErrFileTooLarge, filename,
			float64(len(data))/1024/1024, float64(s.maxSize)/1024/1024)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: .png, .jpg, .jpeg, .csv)", ErrUnsupportedExtension, ext)
	}
	return nil
}

// Upload validates the payload, stores the blob under a randomized key and
// persists the metadata row. messageID may be nil for standalone uploads.
func (s *FileService) Upload(
	ctx context.Context,
	userID, conversationID string,
	messageID *string,
	filename string,
	data []byte,
	contentType string,
) (*domain.File, error) {
	if _, err := s.conversation.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if err := s.Validate(filename, data); err != nil {
		return nil, err
	}

	filetype := domain.DetectFileType(filename)
	key := storage.RandomStorageKey(filename)

	fileURL, err := s.storage.Upload(ctx, filetype, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}

	if filetype == domain.FileTypeCSV {
		if rows, cols, names, err := csvsum.Metadata(data); err == nil {
			s.logger.Info("csv uploaded", "filename", filename,
				"rows", rows, "columns", cols, "column_names", strings.Join(names, ","))
		}
	}

	file, err := s.fileRepo.Create(ctx, &domain.File{
		Filename:       filename,
		Filetype:       filetype,
		FileURL:        fileURL,
		Size:           int64(len(data)),
		UserID:         userID,
		ConversationID: conversationID,
		MessageID:      messageID,
	})
	if err != nil {
		return nil, fmt.Errorf("recording file metadata: %w", err)
	}

	s.logger.Info("file uploaded", "file_id", file.ID, "filename", filename,
		"filetype", string(filetype), "size", file.Size)
	return file, nil
}

// ListByConversation returns the conversation's files newest-first.
func (s *FileService) ListByConversation(ctx context.Context, userID, conversationID string) ([]domain.File, error) {
	if _, err := s.conversation.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.fileRepo.FindByConversationID(ctx, conversationID)
}
