package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

// UserService handles user lookups and avatar management.
type UserService struct {
	db    *gorm.DB
	store ImageStore
}

func NewUserService(db *gorm.DB, store ImageStore) *UserService {
	return &UserService{db: db, store: store}
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewDatabase("failed to load user", err)
	}
	return &user, nil
}

// List returns one page of users plus the total count.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, apperror.NewDatabase("failed to count users", err)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("username").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, apperror.NewDatabase("failed to list users", err)
	}
	return users, count, nil
}

// SetAvatar decodes a base64 data-URI payload, stores it through the
// image store collaborator and saves the opaque reference.
func (s *UserService) SetAvatar(ctx context.Context, userID uuid.UUID, payload string) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.store == nil {
		return nil, apperror.NewInternal("image storage is not configured", nil)
	}

	data, contentType, err := DecodeBase64Image(payload)
	if err != nil {
		return nil, apperror.NewValidation(map[string]string{"avatar": "invalid image payload"})
	}

	url, err := s.store.Upload(ctx, data, contentType, "avatars")
	if err != nil {
		return nil, apperror.NewInternal("failed to store avatar", err)
	}

	user.Avatar = url
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		return nil, apperror.NewDatabase("failed to save avatar", err)
	}
	return user, nil
}

// DeleteAvatar clears the stored avatar reference.
func (s *UserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return apperror.NewDatabase("failed to delete avatar", err)
	}
	return nil
}
