// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
)

// ConversationService is ownership-enforcing CRUD over conversations. Every
// read/update/delete loads the conversation first: absent rows map to
// ErrNotFound, rows owned by someone else to ErrForbidden.
type ConversationService struct {
	conversationRepo repository.ConversationRepository
	logger           Logger
}

func NewConversationService(repo repository.ConversationRepository, logger Logger) *ConversationService {
	return &ConversationService{conversationRepo: repo, logger: logger}
}

// List returns the user's conversations newest-first.
func (s *ConversationService) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.conversationRepo.FindByUserID(ctx, userID)
}

func (s *ConversationService) Create(ctx context.Context, userID, title string) (*domain.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(title) > 100 {
		return nil, fmt.Errorf("%w: title must be at most 100 characters", ErrValidation)
	}

	conversation, err := s.conversationRepo.Create(ctx, &domain.Conversation{Title: title, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	s.logger.Info("conversation created", "conversation_id", conversation.ID, "user_id", userID)
	return conversation, nil
}

func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	return s.Authorize(ctx, userID, conversationID)
}

func (s *ConversationService) UpdateTitle(ctx context.Context, userID, conversationID, title string) (*domain.Conversation, error) {
	if _, err := s.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	updated, err := s.conversationRepo.UpdateTitle(ctx, conversationID, title)
	if err != nil {
		return nil, err
	}
	s.logger.Info("conversation title updated", "conversation_id", conversationID)
	return updated, nil
}

// Delete removes the conversation and, through the repository's cascade, its
// messages and files.
func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	if _, err := s.Authorize(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.conversationRepo.Delete(ctx, conversationID); err != nil {
		return err
	}
	s.logger.Info("conversation deleted", "conversation_id", conversationID, "user_id", userID)
	return nil
}

// Authorize loads the conversation and verifies the requester owns it.
// Not-found wins over forbidden, existence is not leaked either way.
func (s *ConversationService) Authorize(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if conversation.UserID != userID {
		s.logger.Warn("unauthorized conversation access",
			"conversation_id", conversationID, "user_id", userID)
		return nil, ErrForbidden
	}
	return conversation, nil
}
