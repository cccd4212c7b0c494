// File: internal/dtos/conversation.go
package dtos

type ConversationCreateRequest struct {
	Title string `json:"title"`
}

type ConversationUpdateRequest struct {
	Title string `json:"title"`
}
