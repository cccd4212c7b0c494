// File: internal/services/message_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
)

// MessageService handles conversation-scoped message operations.
type MessageService struct {
	messageRepo  repository.MessageRepository
	conversation *ConversationService
	logger       Logger
}

func NewMessageService(repo repository.MessageRepository, conversation *ConversationService, logger Logger) *MessageService {
	return &MessageService{messageRepo: repo, conversation: conversation, logger: logger}
}

// ListByConversation returns messages oldest-first for an owned conversation.
func (s *MessageService) ListByConversation(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if _, err := s.conversation.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByConversationID(ctx, conversationID)
}

// Create persists a user-sent message in an owned conversation.
func (s *MessageService) Create(ctx context.Context, userID, conversationID, content string) (*domain.Message, error) {
	if _, err := s.conversation.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}

	message, err := s.messageRepo.Create(ctx, &domain.Message{
		Content:        content,
		Sender:         domain.SenderUser,
		UserID:         userID,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("message created", "message_id", message.ID, "conversation_id", conversationID)
	return message, nil
}

// Delete removes a message the requester authored.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return ErrNotFound
		}
		return err
	}
	if message.UserID != userID {
		s.logger.Warn("unauthorized message delete", "message_id", messageID, "user_id", userID)
		return ErrForbidden
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}
	s.logger.Info("message deleted", "message_id", messageID, "user_id", userID)
	return nil
}
