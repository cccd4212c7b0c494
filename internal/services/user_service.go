// File: internal/services/user_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/appchat/appchat-backend/internal/auth"
	"github.com/appchat/appchat-backend/internal/domain"
	"github.com/appchat/appchat-backend/internal/repository"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

// UserService handles registration, login and token resolution.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	logger    Logger
}

func NewUserService(repo repository.UserRepository, secretKey string, logger Logger) *UserService {
	return &UserService{
		userRepo:  repo,
		jwtSecret: []byte(secretKey),
		logger:    logger,
	}
}

// Register creates a new user with a salted password hash. Fails when the
// username is already taken.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if !usernameRegex.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-50 characters, alphanumeric or underscore", ErrValidation)
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		s.logger.Warn("registration attempt with existing username", "username", username)
		return nil, ErrUsernameTaken
	}

	user := &domain.User{Username: username}
	if err := user.HashPassword(password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "username", created.Username, "user_id", created.ID)
	return created, nil
}

// Login verifies credentials and issues a signed, time-limited token
// carrying the username as subject.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed, user not found", "username", username)
		return "", ErrInvalidCredentials
	}

	if err := user.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed, invalid password", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret)
	if err != nil {
		s.logger.Error("token generation failed", "username", username, "error", err)
		return "", errors.New("could not generate token")
	}

	s.logger.Info("login successful", "username", username)
	return token, nil
}

// Resolve verifies a bearer token and loads the user it identifies.
func (s *UserService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	username, err := auth.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		// The user may have been deleted after the token was issued.
		return nil, ErrInvalidToken
	}
	return user, nil
}

// GetByUsername loads a user's public details.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
