// File: internal/domain/message.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sender discriminates who authored a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderSystem Sender = "system"
)

func (s Sender) IsValid() bool {
	return s == SenderUser || s == SenderSystem
}

// Message is a single message within a conversation.
type Message struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	Content        string    `json:"content" gorm:"not null"`
	Sender         Sender    `json:"sender" gorm:"size:10;not null"`
	UserID         string    `json:"user_id" gorm:"type:uuid;index;not null"`
	ConversationID string    `json:"conversation_id" gorm:"type:uuid;index;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Files []File `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if !m.Sender.IsValid() {
		return fmt.Errorf("invalid sender: %q", m.Sender)
	}
	return nil
}
