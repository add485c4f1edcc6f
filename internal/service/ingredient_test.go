package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
)

func TestIngredientListPrefixFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngredientService(db, nil)
	createIngredient(t, db, "Sugar", "g")
	createIngredient(t, db, "Salt", "g")
	createIngredient(t, db, "salted butter", "g")

	// The filter matches the start of the name, case-insensitively.
	ingredients, err := svc.List(context.Background(), "sA")
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "Salt", ingredients[0].Name)
	assert.Equal(t, "salted butter", ingredients[1].Name)

	ingredients, err = svc.List(context.Background(), "ugar")
	require.NoError(t, err)
	assert.Empty(t, ingredients)

	ingredients, err = svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, ingredients, 3)
}

func TestIngredientListFilterTreatsWildcardsLiterally(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngredientService(db, nil)
	createIngredient(t, db, "Sugar", "g")
	createIngredient(t, db, "Salt", "g")
	createIngredient(t, db, "100% cocoa", "g")
	createIngredient(t, db, "no_name brand oats", "g")

	// "%" matches only names that start with a literal percent sign.
	ingredients, err := svc.List(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, ingredients)

	ingredients, err = svc.List(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "100% cocoa", ingredients[0].Name)

	// "_" is a literal underscore, not a single-character wildcard.
	ingredients, err = svc.List(context.Background(), "no_")
	require.NoError(t, err)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "no_name brand oats", ingredients[0].Name)

	ingredients, err = svc.List(context.Background(), "na")
	require.NoError(t, err)
	assert.Empty(t, ingredients)
}

func TestIngredientGetNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewIngredientService(db, nil)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestIngredientNameUnitUniqueness(t *testing.T) {
	db := newTestDB(t)
	createIngredient(t, db, "Sugar", "g")

	err := db.Create(&models.Ingredient{Name: "Sugar", MeasurementUnit: "g"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Same name under a different unit is a distinct catalog entry.
	err = db.Create(&models.Ingredient{Name: "Sugar", MeasurementUnit: "tbsp"}).Error
	assert.NoError(t, err)
}

func TestTagCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := NewTagService(db, nil)
	breakfast := createTag(t, db, "breakfast")
	createTag(t, db, "dinner")

	tags, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tag, err := svc.Get(context.Background(), breakfast.ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	err = db.Create(&models.Tag{Name: "breakfast", Slug: "breakfast2"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
