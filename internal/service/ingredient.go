package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

const ingredientCacheKey = "catalog:ingredients"

// IngredientService is the read-only ingredient catalog.
type IngredientService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewIngredientService creates a new IngredientService instance. The
// cache client may be nil; lookups then always hit the database.
func NewIngredientService(db *gorm.DB, cache *redis.Client) *IngredientService {
	return &IngredientService{db: db, cache: cache}
}

// List returns ingredients ordered by name. A non-empty namePrefix
// filters case-insensitively on the start of the name. The unfiltered
// listing is served through the redis cache when available.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	if namePrefix == "" {
		if cached, ok := s.fromCache(ctx); ok {
			return cached, nil
		}
	}

	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name")
	if namePrefix != "" {
		// LIKE metacharacters in the filter match literally.
		query = query.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, escapeLike(namePrefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, apperror.NewDatabase("failed to list ingredients", err)
	}

	if namePrefix == "" {
		s.toCache(ctx, ingredients)
	}
	return ingredients, nil
}

// Get retrieves a single catalog ingredient.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("ingredient not found")
		}
		return nil, apperror.NewDatabase("failed to load ingredient", err)
	}
	return &ingredient, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *IngredientService) fromCache(ctx context.Context) ([]models.Ingredient, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, err := s.cache.Get(ctx, ingredientCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var ingredients []models.Ingredient
	if err := json.Unmarshal(payload, &ingredients); err != nil {
		return nil, false
	}
	return ingredients, true
}

func (s *IngredientService) toCache(ctx context.Context, ingredients []models.Ingredient) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(ingredients)
	if err != nil {
		return
	}
	// Catalog data changes only on reseed; a short TTL keeps it honest.
	s.cache.Set(ctx, ingredientCacheKey, payload, 10*time.Minute)
}
