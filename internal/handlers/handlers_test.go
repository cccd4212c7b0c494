// File: internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/middleware"
	"github.com/appchat/appchat-backend/internal/repository"
	"github.com/appchat/appchat-backend/internal/services"
)

// stubAI answers every path with a fixed string.
type stubAI struct{ reply string }

func (s *stubAI) Chat(context.Context, string) (string, error) { return s.reply, nil }
func (s *stubAI) AskAboutImage(context.Context, []byte, string, string) (string, error) {
	return s.reply, nil
}
func (s *stubAI) AskAboutCSV(context.Context, string, string) (string, error) {
	return s.reply, nil
}

// stubStorage returns a fake URL without touching the network.
type stubStorage struct{}

func (s *stubStorage) Upload(_ context.Context, filetype domain.FileType, key string, _ []byte, _ string) (string, error) {
	return fmt.Sprintf("http://storage.test/%s/%s", filetype, key), nil
}

// newTestServer builds the real router over an in-memory database.
func newTestServer(t *testing.T) *mux.Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Conversation{}, &domain.Message{}, &domain.File{}))

	logger := &services.NoOpLogger{}
	conversations := services.NewConversationService(repository.NewConversationRepository(db), logger)
	files := services.NewFileService(repository.NewFileRepository(db), conversations, &stubStorage{}, 10*1024*1024, logger)
	messageRepo := repository.NewMessageRepository(db)
	chat, err := services.NewChatService(messageRepo, conversations, files, &stubAI{reply: "stub reply"}, logger)
	require.NoError(t, err)

	userService := services.NewUserService(repository.NewGormUserRepository(db), "test-secret", logger)
	messages := services.NewMessageService(messageRepo, conversations, logger)

	authHandler := NewAuthHandler(userService)
	conversationHandler := NewConversationHandler(conversations, chat)
	messageHandler := NewMessageHandler(messages)

	r := mux.NewRouter()
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(middleware.NewBearerAuthMiddleware(userService))
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/conversations", conversationHandler.List).Methods("GET")
	protected.HandleFunc("/conversations", conversationHandler.Create).Methods("POST")
	protected.HandleFunc("/conversations/{id}", conversationHandler.Get).Methods("GET")
	protected.HandleFunc("/conversations/{id}", conversationHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/conversations/{id}/messages", conversationHandler.SendMessage).Methods("POST")
	protected.HandleFunc("/messages/conversation/{id}", messageHandler.ListByConversation).Methods("GET")

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, r http.Handler, username string) string {
	t.Helper()

	rec := doJSON(t, r, "POST", "/auth/register", "",
		map[string]string{"username": username, "password": "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, r, "POST", "/auth/login", "",
		map[string]string{"username": username, "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	require.Equal(t, "bearer", token.TokenType)
	return token.AccessToken
}

func TestAuthFlow(t *testing.T) {
	r := newTestServer(t)
	token := registerAndLogin(t, r, "alice")

	rec := doJSON(t, r, "GET", "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_Duplicate(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice")

	rec := doJSON(t, r, "POST", "/auth/register", "",
		map[string]string{"username": "alice", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newTestServer(t)
	registerAndLogin(t, r, "alice")

	rec := doJSON(t, r, "POST", "/auth/login", "",
		map[string]string{"username": "alice", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	r := newTestServer(t)

	rec := doJSON(t, r, "GET", "/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, r, "GET", "/conversations", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConversationLifecycle(t *testing.T) {
	r := newTestServer(t)
	token := registerAndLogin(t, r, "alice")

	rec := doJSON(t, r, "POST", "/conversations", token, map[string]string{"title": "My chat"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var conversation struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))
	assert.Equal(t, "My chat", conversation.Title)

	rec = doJSON(t, r, "GET", "/conversations/"+conversation.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, "DELETE", "/conversations/"+conversation.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, "GET", "/conversations/"+conversation.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversation_OwnershipStatusCodes(t *testing.T) {
	r := newTestServer(t)
	aliceToken := registerAndLogin(t, r, "alice")
	bobToken := registerAndLogin(t, r, "bob")

	rec := doJSON(t, r, "POST", "/conversations", aliceToken, map[string]string{"title": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var conversation struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))

	// Unknown id yields 404, someone else's yields 403.
	rec = doJSON(t, r, "GET", "/conversations/00000000-0000-0000-0000-000000000000", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "GET", "/conversations/"+conversation.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSendMessage_TextViaQueryParam(t *testing.T) {
	r := newTestServer(t)
	token := registerAndLogin(t, r, "alice")

	rec := doJSON(t, r, "POST", "/conversations", token, map[string]string{"title": "Chat"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var conversation struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conversation))

	req := httptest.NewRequest("POST",
		"/conversations/"+conversation.ID+"/messages?content="+strings.ReplaceAll("hello there", " ", "%20"),
		nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var exchange struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
		AIMessage *struct {
			Content string `json:"content"`
			Sender  string `json:"sender"`
		} `json:"ai_message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &exchange))
	require.NotNil(t, exchange.Message)
	assert.Equal(t, "hello there", exchange.Message.Content)
	require.NotNil(t, exchange.AIMessage)
	assert.Equal(t, "stub reply", exchange.AIMessage.Content)
	assert.Equal(t, "system", exchange.AIMessage.Sender)
}
