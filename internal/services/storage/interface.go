// File: internal/services/storage/interface.go
package storage

import (
	"context"

	"github.com/appchat/appchat-backend/internal/domain"
)

// Provider stores file blobs and hands back a public URL for each.
type Provider interface {
	Upload(ctx context.Context, filetype domain.FileType, key string, data []byte, contentType string) (string, error)
}
