// File: internal/dtos/message.go
package dtos

type MessageCreateRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}
