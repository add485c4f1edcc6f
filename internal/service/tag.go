package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

const tagCacheKey = "catalog:tags"

// TagService is the read-only tag catalog.
type TagService struct {
	db    *gorm.DB
	cache *redis.Client
}

func NewTagService(db *gorm.DB, cache *redis.Client) *TagService {
	return &TagService{db: db, cache: cache}
}

// List returns every tag ordered by name.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, tagCacheKey).Bytes(); err == nil {
			var tags []models.Tag
			if err := json.Unmarshal(payload, &tags); err == nil {
				return tags, nil
			}
		}
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, apperror.NewDatabase("failed to list tags", err)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(tags); err == nil {
			s.cache.Set(ctx, tagCacheKey, payload, 10*time.Minute)
		}
	}
	return tags, nil
}

// Get retrieves a single tag.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("tag not found")
		}
		return nil, apperror.NewDatabase("failed to load tag", err)
	}
	return &tag, nil
}
