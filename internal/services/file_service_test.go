// File: internal/services/file_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appchat/appchat-backend/internal/domain"
)

func TestFileService_Upload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Uploads")

	file, err := env.files.Upload(ctx, user.ID, conversation.ID, nil,
		"report.csv", []byte("a,b\n1,2\n"), "text/csv")
	require.NoError(t, err)

	assert.Equal(t, "report.csv", file.Filename)
	assert.Equal(t, domain.FileTypeCSV, file.Filetype)
	assert.Equal(t, int64(8), file.Size)
	assert.NotEmpty(t, file.FileURL)
	assert.Nil(t, file.MessageID)

	require.Len(t, env.storage.uploads, 1)
	blob := env.storage.uploads[0]
	assert.Equal(t, domain.FileTypeCSV, blob.Filetype)
	// The storage key is randomized, only the extension carries over.
	assert.NotEqual(t, "report.csv", blob.Key)
	assert.True(t, strings.HasSuffix(blob.Key, ".csv"))
}

func TestFileService_Upload_RejectsBeforeStorage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Uploads")

	tests := []struct {
		name     string
		filename string
		data     []byte
		wantErr  error
	}{
		{"empty file", "empty.csv", nil, ErrEmptyFile},
		{"oversized file", "big.png", make([]byte, 10*1024*1024+1), ErrFileTooLarge},
		{"unsupported extension", "notes.txt", []byte("hello"), ErrUnsupportedExtension},
		{"gif is not accepted", "anim.gif", []byte("GIF89a"), ErrUnsupportedExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.files.Upload(ctx, user.ID, conversation.ID, nil,
				tt.filename, tt.data, "application/octet-stream")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing reached the storage backend.
	assert.Empty(t, env.storage.uploads)
}

func TestFileService_Upload_ForeignConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	conversation := env.seedConversation(t, alice.ID, "Private")

	_, err := env.files.Upload(ctx, bob.ID, conversation.ID, nil,
		"sneaky.png", []byte("data"), "image/png")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, env.storage.uploads)
}

func TestFileService_Upload_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Uploads")
	env.storage.err = errStorageDown

	_, err := env.files.Upload(ctx, user.ID, conversation.ID, nil,
		"photo.jpg", []byte("data"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorageDown)

	// No orphan metadata row.
	var count int64
	env.db.Model(&domain.File{}).Count(&count)
	assert.Zero(t, count)
}

func TestFileService_ListByConversation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedUser(t, "alice")
	conversation := env.seedConversation(t, user.ID, "Uploads")

	_, err := env.files.Upload(ctx, user.ID, conversation.ID, nil,
		"one.csv", []byte("a\n1\n"), "text/csv")
	require.NoError(t, err)
	_, err = env.files.Upload(ctx, user.ID, conversation.ID, nil,
		"two.png", []byte("png bytes"), "image/png")
	require.NoError(t, err)

	files, err := env.files.ListByConversation(ctx, user.ID, conversation.ID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
