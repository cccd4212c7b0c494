// File: internal/repository/interface.go
package repository

import (
	"context"

	"github.com/appchat/appchat-backend/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ConversationRepository handles conversation data operations.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.Conversation, error)
	UpdateTitle(ctx context.Context, id, title string) (*domain.Conversation, error)
	Delete(ctx context.Context, id string) error
}

// MessageRepository handles message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error)
	Delete(ctx context.Context, id string) error
}

// FileRepository handles file metadata operations.
type FileRepository interface {
	Create(ctx context.Context, file *domain.File) (*domain.File, error)
	FindByConversationID(ctx context.Context, conversationID string) ([]domain.File, error)
}
