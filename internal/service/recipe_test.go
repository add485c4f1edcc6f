package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
	"github.com/IvanKorch1289/foodgram/internal/types"
)

func TestCreateRecipeCollectsAllValidationErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")

	_, err := svc.Create(context.Background(), author.ID, &types.RecipeRequest{})
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "text")
	assert.Contains(t, appErr.Fields, "cooking_time")
	assert.Contains(t, appErr.Fields, "ingredients")
	assert.Contains(t, appErr.Fields, "tags")
}

func TestCreateRecipeRejectsDuplicateIngredient(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	in := recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100), amount(sugar.ID, 50))
	_, err := svc.Create(context.Background(), author.ID, in)
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "ingredients")
}

func TestCreateRecipeUnknownRelations(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	_, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{uuid.New()}, amount(sugar.ID, 100)))
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(uuid.New(), 100)))
	assert.True(t, apperror.IsNotFound(err))
}

func TestFailedCreateLeavesNoRows(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	// Valid ingredients with an empty tag set fails validation.
	in := recipeInput("Pancakes", nil, amount(sugar.ID, 100))
	_, err := svc.Create(context.Background(), author.ID, in)
	require.Error(t, err)

	// Valid ingredients with an unknown tag fails relation resolution.
	in = recipeInput("Pancakes", []uuid.UUID{uuid.New()}, amount(sugar.ID, 100))
	_, err = svc.Create(context.Background(), author.ID, in)
	require.Error(t, err)

	// Neither failure leaves a recipe or any ingredient row behind.
	var recipeCount, joinCount int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipeCount).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&joinCount).Error)
	assert.Zero(t, recipeCount)
	assert.Zero(t, joinCount)

	// The tag catalog is untouched as well.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&tagCount).Error)
	assert.EqualValues(t, 1, tagCount)
}

func TestCreateRecipePersistsAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")
	salt := createIngredient(t, db, "Salt", "g")

	recipe, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100), amount(salt.ID, 5)))
	require.NoError(t, err)
	assert.Equal(t, author.ID, recipe.AuthorID)

	var joinRows int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&joinRows).Error)
	assert.EqualValues(t, 2, joinRows)

	var tags []models.Tag
	require.NoError(t, db.Model(recipe).Association("Tags").Find(&tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].Slug)
}

func TestUpdateRecipeForbiddenForNonAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	other := createUser(t, db, "rival")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	recipe, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, recipe.ID,
		recipeInput("Stolen", []uuid.UUID{tag.ID}, amount(sugar.ID, 1)))
	assert.True(t, apperror.IsForbidden(err))

	err = svc.Delete(context.Background(), other.ID, recipe.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestUpdateRecipeReplacesRelations(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	breakfast := createTag(t, db, "breakfast")
	dinner := createTag(t, db, "dinner")
	sugar := createIngredient(t, db, "Sugar", "g")
	salt := createIngredient(t, db, "Salt", "g")
	flour := createIngredient(t, db, "Flour", "g")

	recipe, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{breakfast.ID}, amount(sugar.ID, 100), amount(salt.ID, 5)))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), author.ID, recipe.ID,
		recipeInput("Crepes", []uuid.UUID{dinner.ID}, amount(flour.ID, 200)))
	require.NoError(t, err)
	assert.Equal(t, "Crepes", updated.Name)

	var rows []models.RecipeIngredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, flour.ID, rows[0].IngredientID)
	assert.Equal(t, 200, rows[0].Amount)

	var tags []models.Tag
	require.NoError(t, db.Model(updated).Association("Tags").Find(&tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "dinner", tags[0].Slug)
}

func TestUpdateRecipeKeepsImageWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	recipe, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)
	originalImage := recipe.Image

	in := recipeInput("Pancakes v2", []uuid.UUID{tag.ID}, amount(sugar.ID, 50))
	in.Image = ""
	updated, err := svc.Update(context.Background(), author.ID, recipe.ID, in)
	require.NoError(t, err)
	assert.Equal(t, originalImage, updated.Image)
}

func TestDeleteRecipeRemovesMemberships(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	author := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	recipe, err := svc.Create(context.Background(), author.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.FavoriteRecipe{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.CartRecipe{UserID: fan.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, svc.Delete(context.Background(), author.ID, recipe.ID))

	_, err = svc.Get(context.Background(), recipe.ID)
	assert.True(t, apperror.IsNotFound(err))

	for _, model := range []interface{}{
		&models.RecipeIngredient{}, &models.FavoriteRecipe{}, &models.CartRecipe{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestListRecipesFiltersAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	chef := createUser(t, db, "chef")
	baker := createUser(t, db, "baker")
	breakfast := createTag(t, db, "breakfast")
	dinner := createTag(t, db, "dinner")
	sugar := createIngredient(t, db, "Sugar", "g")

	pancakes, err := svc.Create(context.Background(), chef.ID,
		recipeInput("Pancakes", []uuid.UUID{breakfast.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)
	stew, err := svc.Create(context.Background(), baker.ID,
		recipeInput("Stew", []uuid.UUID{dinner.ID}, amount(sugar.ID, 10)))
	require.NoError(t, err)

	// Spread creation times so the newest-first order is unambiguous.
	require.NoError(t, db.Model(pancakes).Update("created_at", time.Now().Add(-time.Hour)).Error)

	recipes, count, err := svc.List(context.Background(), RecipeFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, recipes, 2)
	assert.Equal(t, stew.ID, recipes[0].ID)
	assert.Equal(t, pancakes.ID, recipes[1].ID)

	recipes, count, err = svc.List(context.Background(), RecipeFilter{TagSlugs: []string{"breakfast"}}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, pancakes.ID, recipes[0].ID)

	recipes, _, err = svc.List(context.Background(), RecipeFilter{Authors: []uuid.UUID{baker.ID}}, 10, 0)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, stew.ID, recipes[0].ID)
}

func TestListRecipesFavoritedFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecipeService(db)
	chef := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	liked, err := svc.Create(context.Background(), chef.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), chef.ID,
		recipeInput("Stew", []uuid.UUID{tag.ID}, amount(sugar.ID, 10)))
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.FavoriteRecipe{UserID: fan.ID, RecipeID: liked.ID}).Error)

	recipes, count, err := svc.List(context.Background(),
		RecipeFilter{Favorited: true, Requester: &fan.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, liked.ID, recipes[0].ID)

	// Without a requester the flag is ignored rather than matching nothing.
	_, count, err = svc.List(context.Background(), RecipeFilter{Favorited: true}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
