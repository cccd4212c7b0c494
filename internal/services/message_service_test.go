// File: internal/services/message_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appchat/appchat-backend/internal/domain"
)

func TestMessageService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Chat")

	first, err := env.messages.Create(ctx, user.ID, conversation.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, domain.SenderUser, first.Sender)

	_, err = env.messages.Create(ctx, user.ID, conversation.ID, "second")
	require.NoError(t, err)

	messages, err := env.messages.ListByConversation(ctx, user.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "second", messages[1].Content)
}

func TestMessageService_Create_EmptyContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Chat")

	_, err := env.messages.Create(ctx, user.ID, conversation.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMessageService_List_ForeignConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	conversation := env.seedConversation(t, alice.ID, "Private")

	_, err := env.messages.ListByConversation(ctx, bob.ID, conversation.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMessageService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	conversation := env.seedConversation(t, alice.ID, "Chat")

	message, err := env.messages.Create(ctx, alice.ID, conversation.ID, "delete me")
	require.NoError(t, err)

	err = env.messages.Delete(ctx, bob.ID, message.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.messages.Delete(ctx, alice.ID, message.ID))

	err = env.messages.Delete(ctx, alice.ID, message.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
