// File: internal/domain/file.go
package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileType is the coarse classification derived from the file extension.
// It decides which AI analysis path handles the file.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeCSV   FileType = "csv"
)

func (t FileType) IsValid() bool {
	return t == FileTypeImage || t == FileTypeCSV
}

// DetectFileType classifies a filename by extension: raster images are
// "image", everything else falls through to "csv".
func DetectFileType(filename string) FileType {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch ext {
	case "png", "jpg", "jpeg", "gif":
		return FileTypeImage
	default:
		return FileTypeCSV
	}
}

// File is the metadata record for an uploaded blob. The bytes themselves
// live in object storage; FileURL points at them.
type File struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	Filename       string    `json:"filename" gorm:"not null"`
	Filetype       FileType  `json:"filetype" gorm:"size:10;not null"`
	FileURL        string    `json:"fileurl" gorm:"not null"`
	Size           int64     `json:"size" gorm:"not null"`
	UserID         string    `json:"user_id" gorm:"type:uuid;index;not null"`
	ConversationID string    `json:"conversation_id" gorm:"type:uuid;index;not null"`
	MessageID      *string   `json:"message_id" gorm:"type:uuid;index"`
	UploadedAt     time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if !f.Filetype.IsValid() {
		return fmt.Errorf("invalid filetype: %q", f.Filetype)
	}
	return nil
}
