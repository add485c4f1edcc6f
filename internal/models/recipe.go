package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	Base
	Name        string             `gorm:"size:256;not null" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null" json:"cooking_time"`
	Image       string             `gorm:"size:255" json:"image"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"-"`
}

// RecipeIngredient links a recipe to a catalog ingredient with an
// amount. Rows are owned by the recipe and replaced wholesale on
// update. A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	RecipeID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int        `gorm:"not null" json:"amount"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
