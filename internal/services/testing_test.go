// File: internal/services/testing_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
)

// testEnv wires the full service stack against an in-memory database with
// fake external providers.
type testEnv struct {
	db            *gorm.DB
	users         *UserService
	conversations *ConversationService
	messages      *MessageService
	files         *FileService
	chat          *ChatService
	ai            *fakeAIProvider
	storage       *fakeStorageProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Conversation{}, &domain.Message{}, &domain.File{}))

	logger := &NoOpLogger{}
	aiProvider := &fakeAIProvider{chatReply: "hello there"}
	storageProvider := &fakeStorageProvider{}

	conversations := NewConversationService(repository.NewConversationRepository(db), logger)
	files := NewFileService(repository.NewFileRepository(db), conversations, storageProvider, 10*1024*1024, logger)
	messageRepo := repository.NewMessageRepository(db)

	chat, err := NewChatService(messageRepo, conversations, files, aiProvider, logger)
	require.NoError(t, err)

	return &testEnv{
		db:            db,
		users:         NewUserService(repository.NewGormUserRepository(db), "test-secret", logger),
		conversations: conversations,
		messages:      NewMessageService(messageRepo, conversations, logger),
		files:         files,
		chat:          chat,
		ai:            aiProvider,
		storage:       storageProvider,
	}
}

// seedUser registers a user directly through the service.
func (e *testEnv) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), username, "password123")
	require.NoError(t, err)
	return user
}

func (e *testEnv) seedConversation(t *testing.T, userID, title string) *domain.Conversation {
	t.Helper()
	conversation, err := e.conversations.Create(context.Background(), userID, title)
	require.NoError(t, err)
	return conversation
}

// fakeAIProvider returns canned replies and records what it was asked.
type fakeAIProvider struct {
	chatReply  string
	chatErr    error
	imageReply string
	imageErr   error
	csvReply   string
	csvErr     error

	chatPrompts  []string
	imageMIMEs   []string
	csvSummaries []string
}

func (f *fakeAIProvider) Chat(_ context.Context, prompt string) (string, error) {
	f.chatPrompts = append(f.chatPrompts, prompt)
	return f.chatReply, f.chatErr
}

func (f *fakeAIProvider) AskAboutImage(_ context.Context, _ []byte, _ string, mimeType string) (string, error) {
	f.imageMIMEs = append(f.imageMIMEs, mimeType)
	return f.imageReply, f.imageErr
}

func (f *fakeAIProvider) AskAboutCSV(_ context.Context, summary, _ string) (string, error) {
	f.csvSummaries = append(f.csvSummaries, summary)
	return f.csvReply, f.csvErr
}

type storedBlob struct {
	Filetype    domain.FileType
	Key         string
	Size        int
	ContentType string
}

// fakeStorageProvider records every upload instead of talking to S3.
type fakeStorageProvider struct {
	uploads []storedBlob
	err     error
}

func (f *fakeStorageProvider) Upload(_ context.Context, filetype domain.FileType, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, storedBlob{
		Filetype:    filetype,
		Key:         key,
		Size:        len(data),
		ContentType: contentType,
	})
	return fmt.Sprintf("http://storage.test/%s/%s", filetype, key), nil
}

var errStorageDown = errors.New("storage unavailable")
