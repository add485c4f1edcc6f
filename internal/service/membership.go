package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
	"github.com/IvanKorch1289/foodgram/internal/types"
)

// MembershipEntry constrains the two (user, recipe) membership tables.
type MembershipEntry interface {
	models.FavoriteRecipe | models.CartRecipe
}

// MembershipService implements the favorite and shopping-cart toggle
// sets; both have identical semantics so the component is written once
// and instantiated per table. The existence check is an optimization:
// the composite unique index is what actually wins a race between
// concurrent duplicate adds.
type MembershipService[T MembershipEntry] struct {
	db       *gorm.DB
	label    string
	newEntry func(userID, recipeID uuid.UUID) T
}

func NewFavoriteService(db *gorm.DB) *MembershipService[models.FavoriteRecipe] {
	return &MembershipService[models.FavoriteRecipe]{
		db:    db,
		label: "favorites",
		newEntry: func(userID, recipeID uuid.UUID) models.FavoriteRecipe {
			return models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewCartService(db *gorm.DB) *MembershipService[models.CartRecipe] {
	return &MembershipService[models.CartRecipe]{
		db:    db,
		label: "shopping cart",
		newEntry: func(userID, recipeID uuid.UUID) models.CartRecipe {
			return models.CartRecipe{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add inserts the (user, recipe) pair and returns the reduced recipe
// view. A pair that already exists is a Conflict.
func (s *MembershipService[T]) Add(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortView, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("recipe not found")
		}
		return nil, apperror.NewDatabase("failed to load recipe", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return nil, apperror.NewDatabase("failed to check membership", err)
	}
	if count > 0 {
		return nil, apperror.NewConflict("recipe is already in " + s.label)
	}

	entry := s.newEntry(userID, recipeID)
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflict("recipe is already in " + s.label)
		}
		return nil, apperror.NewDatabase("failed to add to "+s.label, err)
	}

	view := RecipeShort(&recipe)
	return &view, nil
}

// Remove deletes the pair. Removal is not idempotent: a missing pair
// is a NotFound, including on a repeated remove.
func (s *MembershipService[T]) Remove(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(new(T))
	if res.Error != nil {
		return apperror.NewDatabase("failed to remove from "+s.label, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NewNotFound("recipe is not in " + s.label)
	}
	return nil
}
