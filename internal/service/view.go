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

// ViewService shapes entities into their public representations. Every
// method takes the requesting user explicitly; a nil requester is an
// anonymous read and yields false for all derived flags, never an
// error.
type ViewService struct {
	db *gorm.DB
}

func NewViewService(db *gorm.DB) *ViewService {
	return &ViewService{db: db}
}

// Recipe builds the full representation: tag objects, the author's
// profile (with is_subscribed relative to the same requester), the
// flattened ingredient list and the requester's membership flags.
func (s *ViewService) Recipe(ctx context.Context, recipe *models.Recipe, requester *uuid.UUID) (*types.RecipeView, error) {
	view := &types.RecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Tags:        []types.TagView{},
		Ingredients: []types.IngredientAmountView{},
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Model(recipe).Association("Tags").Find(&tags); err != nil {
		return nil, apperror.NewDatabase("failed to load recipe tags", err)
	}
	for _, tag := range tags {
		view.Tags = append(view.Tags, types.TagView{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", recipe.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("author not found")
		}
		return nil, apperror.NewDatabase("failed to load author", err)
	}
	authorView, err := s.User(ctx, &author, requester)
	if err != nil {
		return nil, err
	}
	view.Author = *authorView

	var rows []models.RecipeIngredient
	if err := s.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipe.ID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, apperror.NewDatabase("failed to load recipe ingredients", err)
	}
	for _, row := range rows {
		view.Ingredients = append(view.Ingredients, types.IngredientAmountView{
			ID:              row.Ingredient.ID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	if requester != nil {
		view.IsFavorited, err = s.pairExists(ctx, &models.FavoriteRecipe{}, *requester, recipe.ID)
		if err != nil {
			return nil, err
		}
		view.IsInShoppingCart, err = s.pairExists(ctx, &models.CartRecipe{}, *requester, recipe.ID)
		if err != nil {
			return nil, err
		}
	}

	return view, nil
}

// RecipeShort is the reduced shape nested inside favorite, cart and
// subscription listings.
func RecipeShort(recipe *models.Recipe) types.RecipeShortView {
	return types.RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// User builds the public profile with is_subscribed relative to the
// requester.
func (s *ViewService) User(ctx context.Context, user *models.User, requester *uuid.UUID) (*types.UserView, error) {
	view := &types.UserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	}

	if requester != nil {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.Follow{}).
			Where("follower_id = ? AND author_id = ?", *requester, user.ID).
			Count(&count).Error
		if err != nil {
			return nil, apperror.NewDatabase("failed to check subscription", err)
		}
		view.IsSubscribed = count > 0
	}

	return view, nil
}

// UserWithRecipes extends the profile with a limited slice of the
// user's recipes and the total recipe count. A nil limit means
// unlimited.
func (s *ViewService) UserWithRecipes(ctx context.Context, user *models.User, requester *uuid.UUID, limit *int) (*types.UserWithRecipesView, error) {
	base, err := s.User(ctx, user, requester)
	if err != nil {
		return nil, err
	}
	view := &types.UserWithRecipesView{UserView: *base, Recipes: []types.RecipeShortView{}}

	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", user.ID).
		Count(&view.RecipesCount).Error; err != nil {
		return nil, apperror.NewDatabase("failed to count recipes", err)
	}

	query := s.db.WithContext(ctx).
		Where("author_id = ?", user.ID).
		Order("created_at DESC")
	if limit != nil {
		if *limit == 0 {
			return view, nil
		}
		query = query.Limit(*limit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, apperror.NewDatabase("failed to list recipes", err)
	}
	for i := range recipes {
		view.Recipes = append(view.Recipes, RecipeShort(&recipes[i]))
	}

	return view, nil
}

func (s *ViewService) pairExists(ctx context.Context, model interface{}, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, apperror.NewDatabase("failed to check membership", err)
	}
	return count > 0, nil
}
