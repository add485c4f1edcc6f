package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanKorch1289/foodgram/internal/models"
)

func TestRecipeViewAnonymous(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	views := NewViewService(db)
	chef := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")
	salt := createIngredient(t, db, "Salt", "g")

	recipe, err := recipes.Create(context.Background(), chef.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100), amount(salt.ID, 5)))
	require.NoError(t, err)

	view, err := views.Recipe(context.Background(), recipe, nil)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, chef.ID, view.Author.ID)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.False(t, view.Author.IsSubscribed)

	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)

	// Ingredients keep insertion order and carry the catalog unit.
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "Sugar", view.Ingredients[0].Name)
	assert.Equal(t, "g", view.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 100, view.Ingredients[0].Amount)
	assert.Equal(t, "Salt", view.Ingredients[1].Name)
}

func TestRecipeViewRequesterFlags(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	views := NewViewService(db)
	chef := createUser(t, db, "chef")
	fan := createUser(t, db, "fan")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	recipe, err := recipes.Create(context.Background(), chef.ID,
		recipeInput("Pancakes", []uuid.UUID{tag.ID}, amount(sugar.ID, 100)))
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.FavoriteRecipe{UserID: fan.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: fan.ID, AuthorID: chef.ID}).Error)

	view, err := views.Recipe(context.Background(), recipe, &fan.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.True(t, view.Author.IsSubscribed)

	// Flags are relative to the requester, not global.
	other := createUser(t, db, "other")
	view, err = views.Recipe(context.Background(), recipe, &other.ID)
	require.NoError(t, err)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.Author.IsSubscribed)
}

func TestUserWithRecipesLimit(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	views := NewViewService(db)
	chef := createUser(t, db, "chef")
	tag := createTag(t, db, "breakfast")
	sugar := createIngredient(t, db, "Sugar", "g")

	for i := 0; i < 5; i++ {
		_, err := recipes.Create(context.Background(), chef.ID,
			recipeInput(fmt.Sprintf("Dish %d", i), []uuid.UUID{tag.ID}, amount(sugar.ID, 10)))
		require.NoError(t, err)
	}

	two := 2
	view, err := views.UserWithRecipes(context.Background(), chef, nil, &two)
	require.NoError(t, err)
	assert.Len(t, view.Recipes, 2)
	// The count stays at the author's total regardless of the limit.
	assert.EqualValues(t, 5, view.RecipesCount)

	zero := 0
	view, err = views.UserWithRecipes(context.Background(), chef, nil, &zero)
	require.NoError(t, err)
	assert.Empty(t, view.Recipes)
	assert.EqualValues(t, 5, view.RecipesCount)

	view, err = views.UserWithRecipes(context.Background(), chef, nil, nil)
	require.NoError(t, err)
	assert.Len(t, view.Recipes, 5)
}
