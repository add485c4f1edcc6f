package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

// FollowService maintains the directed follower -> author graph.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow inserts an edge. Self-follows fail validation regardless of
// prior state; an existing edge is a Conflict.
func (s *FollowService) Follow(ctx context.Context, followerID, authorID uuid.UUID) (*models.User, error) {
	if followerID == authorID {
		return nil, apperror.NewValidation(map[string]string{
			"author": "you cannot subscribe to yourself",
		})
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("user not found")
		}
		return nil, apperror.NewDatabase("failed to load user", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return nil, apperror.NewDatabase("failed to check subscription", err)
	}
	if count > 0 {
		return nil, apperror.NewConflict("you are already subscribed to this author")
	}

	edge := models.Follow{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("you are already subscribed to this author")
		}
		return nil, apperror.NewDatabase("failed to subscribe", err)
	}

	return &author, nil
}

// Unfollow removes the edge; a missing edge is a NotFound.
func (s *FollowService) Unfollow(ctx context.Context, followerID, authorID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return apperror.NewDatabase("failed to unsubscribe", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("subscription not found")
	}
	return nil
}

// ListFollowing returns one page of the authors the user follows, in
// subscription order, plus the total count.
func (s *FollowService) ListFollowing(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", followerID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, apperror.NewDatabase("failed to count subscriptions", err)
	}

	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.id").
		Limit(limit).Offset(offset).
		Find(&authors).Error
	if err != nil {
		return nil, 0, apperror.NewDatabase("failed to list subscriptions", err)
	}

	return authors, count, nil
}
