// File: internal/repository/gorm_user_repository.go
package repository

import (
	"context"
	"errors"
	"log"

	"github.com/appchat/appchat-backend/internal/domain"
	"gorm.io/gorm"
)

// ErrUserNotFound is exported so services can check for it.
var ErrUserNotFound = errors.New("user not found")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create inserts a new user record.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Create error for username %s: %v", user.Username, err)
		return nil, errors.New("database error creating user")
	}
	return user, nil
}

// FindByID finds a user by their ID.
func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return r.handleFindError(err, &user, "FindByID", id)
}

// FindByUsername finds a user by their username.
func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return r.handleFindError(err, &user, "FindByUsername", username)
}

// handleFindError is a helper to reduce repetitive error handling code.
func (r *gormUserRepository) handleFindError(err error, user *domain.User, methodName string, identifier interface{}) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] %s error for %v: %v", methodName, identifier, err)
		return nil, errors.New("database error finding user")
	}
	return user, nil
}
