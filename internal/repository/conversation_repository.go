// File: internal/repository/conversation_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/appchat/appchat-backend/internal/domain"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// FindByUserID returns the user's conversations newest-first.
func (r *conversationRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *conversationRepository) UpdateTitle(ctx context.Context, id, title string) (*domain.Conversation, error) {
	result := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("id = ?", id).Update("title", title)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrConversationNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a conversation and all its descendants. The cascade runs
// inside one transaction so sqlite behaves the same as Postgres FK cascades.
func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Conversation{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrConversationNotFound
		}
		return nil
	})
}
