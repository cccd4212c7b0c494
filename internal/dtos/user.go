// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/appchat/appchat-backend/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewToken(accessToken string) Token {
	return Token{AccessToken: accessToken, TokenType: "bearer"}
}

type UserRead struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserRead(user *domain.User) UserRead {
	return UserRead{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
