// File: internal/repository/file_repository.go
package repository

import (
	"context"

	"github.com/appchat/appchat-backend/internal/domain"
	"gorm.io/gorm"
)

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *domain.File) (*domain.File, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, err
	}
	return file, nil
}

// FindByConversationID returns the conversation's files newest-first.
func (r *fileRepository) FindByConversationID(ctx context.Context, conversationID string) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}
