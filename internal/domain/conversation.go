// File: internal/domain/conversation.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation represents a single chat thread owned by one user.
type Conversation struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	UserID    string    `json:"user_id" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Files    []File    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
