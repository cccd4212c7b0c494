// File: internal/services/chat_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
	"github.com/appchat/appchat-backend/internal/services/ai"
	"github.com/appchat/appchat-backend/internal/services/csvsum"
)

// Upload carries one attached file through the orchestration flow.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ChatExchange is the result of one orchestrated turn: the persisted user
// message (nil when no text was sent) and the persisted system reply.
type ChatExchange struct {
	Message   *domain.Message `json:"message"`
	AIMessage *domain.Message `json:"ai_message"`
}

// ChatService orchestrates a conversation turn: persist the user's text,
// ingest attachments, dispatch each to the matching AI path and persist the
// combined reply as a system message.
type ChatService struct {
	messageRepo  repository.MessageRepository
	conversation *ConversationService
	files        *FileService
	provider     ai.Provider
	logger       Logger
}

func NewChatService(
	messageRepo repository.MessageRepository,
	conversation *ConversationService,
	files *FileService,
	provider ai.Provider,
	logger Logger,
) (*ChatService, error) {
	if provider == nil {
		return nil, fmt.Errorf("ai provider is required")
	}
	return &ChatService{
		messageRepo:  messageRepo,
		conversation: conversation,
		files:        files,
		provider:     provider,
		logger:       logger,
	}, nil
}

// SendMessage runs one chat turn. Attachments are processed sequentially and
// a failure in one file's analysis becomes an inline error string in that
// file's reply segment; the other segments and the request itself succeed.
func (s *ChatService) SendMessage(
	ctx context.Context,
	userID, conversationID, content string,
	uploads []Upload,
) (*ChatExchange, error) {
	if _, err := s.conversation.Authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	var userMessage *domain.Message
	if content != "" {
		var err error
		userMessage, err = s.messageRepo.Create(ctx, &domain.Message{
			Content:        content,
			Sender:         domain.SenderUser,
			UserID:         userID,
			ConversationID: conversationID,
		})
		if err != nil {
			return nil, fmt.Errorf("persisting user message: %w", err)
		}
	}

	var messageID *string
	if userMessage != nil {
		messageID = &userMessage.ID
	}

	var attachments []attachment
	for _, upload := range uploads {
		file, err := s.files.Upload(ctx, userID, conversationID, messageID,
			upload.Filename, upload.Data, upload.ContentType)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment{upload: upload, filetype: file.Filetype})
	}

	reply, err := s.respond(ctx, content, attachments)
	if err != nil {
		return nil, err
	}

	aiMessage, err := s.messageRepo.Create(ctx, &domain.Message{
		Content:        reply,
		Sender:         domain.SenderSystem,
		UserID:         userID,
		ConversationID: conversationID,
	})
	if err != nil {
		return nil, fmt.Errorf("persisting system message: %w", err)
	}

	s.logger.Info("chat turn completed", "conversation_id", conversationID,
		"files", len(uploads), "has_text", content != "")
	return &ChatExchange{Message: userMessage, AIMessage: aiMessage}, nil
}

// attachment is an upload that made it into storage, tagged with its
// detected type.
type attachment struct {
	upload   Upload
	filetype domain.FileType
}

// respond produces the system reply text: a single conversational answer
// when there are no attachments, otherwise one segment per file joined by
// blank lines, in upload order.
func (s *ChatService) respond(ctx context.Context, content string, attachments []attachment) (string, error) {
	if len(attachments) == 0 {
		return s.provider.Chat(ctx, content)
	}

	segments := make([]string, 0, len(attachments))
	for _, att := range attachments {
		text, err := s.analyzeFile(ctx, content, att.upload, att.filetype)
		if err != nil {
			s.logger.Warn("file analysis failed", "filename", att.upload.Filename, "error", err)
			text = fmt.Sprintf("Error processing %s: %v", att.upload.Filename, err)
		}
		segments = append(segments, text)
	}
	return strings.Join(segments, "\n\n"), nil
}

// analyzeFile dispatches on the coarse file type.
func (s *ChatService) analyzeFile(ctx context.Context, question string, upload Upload, filetype domain.FileType) (string, error) {
	switch filetype {
	case domain.FileTypeImage:
		return s.provider.AskAboutImage(ctx, upload.Data, question, upload.ContentType)
	case domain.FileTypeCSV:
		summary, err := csvsum.Summarize(upload.Data)
		if err != nil {
			return "", err
		}
		return s.provider.AskAboutCSV(ctx, summary, question)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filetype)
	}
}
