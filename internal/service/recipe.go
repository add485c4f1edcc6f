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

const (
	minCookingTime = 1
	minAmount      = 1
)

// RecipeService handles the recipe aggregate: the recipe row, its
// ingredient join rows and its tag links are one consistency unit.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilter narrows a recipe listing. Favorited and InCart are
// honored only when Requester identifies an authenticated user.
type RecipeFilter struct {
	Authors   []uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Requester *uuid.UUID
}

// validate checks every cross-field invariant at once so the caller
// gets the full field -> message map, not just the first failure.
func validateRecipeInput(in *types.RecipeRequest) error {
	fields := map[string]string{}

	if in.Name == "" {
		fields["name"] = "field must not be empty"
	}
	if in.Text == "" {
		fields["text"] = "field must not be empty"
	}
	if in.CookingTime < minCookingTime {
		fields["cooking_time"] = "cooking time must be at least 1 minute"
	}

	if len(in.Ingredients) == 0 {
		fields["ingredients"] = "field must not be empty"
	} else {
		seen := make(map[uuid.UUID]bool, len(in.Ingredients))
		for _, item := range in.Ingredients {
			if seen[item.ID] {
				fields["ingredients"] = "ingredients must not repeat"
				break
			}
			seen[item.ID] = true
			if item.Amount < minAmount {
				fields["ingredients"] = "amount must be at least 1"
				break
			}
		}
	}

	if len(in.Tags) == 0 {
		fields["tags"] = "field must not be empty"
	} else {
		seen := make(map[uuid.UUID]bool, len(in.Tags))
		for _, id := range in.Tags {
			if seen[id] {
				fields["tags"] = "tags must not repeat"
				break
			}
			seen[id] = true
		}
	}

	if len(fields) > 0 {
		return apperror.NewValidation(fields)
	}
	return nil
}

// resolveRelations loads the referenced tags and verifies every
// ingredient exists before any write happens.
func (s *RecipeService) resolveRelations(ctx context.Context, in *types.RecipeRequest) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", in.Tags).Find(&tags).Error; err != nil {
		return nil, apperror.NewDatabase("failed to load tags", err)
	}
	if len(tags) != len(in.Tags) {
		return nil, apperror.NewNotFound("tag not found")
	}

	ids := make([]uuid.UUID, 0, len(in.Ingredients))
	for _, item := range in.Ingredients {
		ids = append(ids, item.ID)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, apperror.NewDatabase("failed to load ingredients", err)
	}
	if count != int64(len(ids)) {
		return nil, apperror.NewNotFound("ingredient not found")
	}

	return tags, nil
}

// Create validates the aggregate and persists the recipe, its
// ingredient rows and its tag links in a single transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in *types.RecipeRequest) (*models.Recipe, error) {
	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	tags, err := s.resolveRelations(ctx, in)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Image:       in.Image,
		AuthorID:    authorID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		rows := buildIngredientRows(recipe.ID, in.Ingredients)
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, translateWriteError(err, "failed to create recipe")
	}

	return &recipe, nil
}

// Update re-validates identically to Create and replaces the whole
// ingredient and tag association instead of patching it. The author
// is immutable.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, in *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, apperror.NewForbidden("only the author can edit a recipe")
	}

	if err := validateRecipeInput(in); err != nil {
		return nil, err
	}
	tags, err := s.resolveRelations(ctx, in)
	if err != nil {
		return nil, err
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTime = in.CookingTime
	if in.Image != "" {
		recipe.Image = in.Image
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		rows := buildIngredientRows(recipe.ID, in.Ingredients)
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Tags").Replace(tags)
	})
	if err != nil {
		return nil, translateWriteError(err, "failed to update recipe")
	}

	return recipe, nil
}

// Delete removes the recipe together with its join rows and any
// favorite or cart entries referencing it.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return apperror.NewForbidden("only the author can delete a recipe")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.FavoriteRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return apperror.NewDatabase("failed to delete recipe", err)
	}
	return nil
}

// Get retrieves a recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("recipe not found")
		}
		return nil, apperror.NewDatabase("failed to load recipe", err)
	}
	return &recipe, nil
}

// List returns one page of recipes, newest first, plus the stable
// total count for the pagination envelope.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter, limit, offset int) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if len(f.Authors) > 0 {
		query = query.Where("author_id IN ?", f.Authors)
	}
	if len(f.TagSlugs) > 0 {
		query = query.Where(
			"id IN (SELECT recipe_tags.recipe_id FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)",
			f.TagSlugs,
		)
	}
	if f.Favorited && f.Requester != nil {
		query = query.Where("id IN (SELECT recipe_id FROM favorite_recipes WHERE user_id = ?)", *f.Requester)
	}
	if f.InCart && f.Requester != nil {
		query = query.Where("id IN (SELECT recipe_id FROM cart_recipes WHERE user_id = ?)", *f.Requester)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, apperror.NewDatabase("failed to count recipes", err)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recipes).Error; err != nil {
		return nil, 0, apperror.NewDatabase("failed to list recipes", err)
	}
	return recipes, count, nil
}

func buildIngredientRows(recipeID uuid.UUID, items []types.IngredientAmountRequest) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return rows
}

func translateWriteError(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.NewConflict("duplicate entry")
	}
	return apperror.NewDatabase(message, err)
}
