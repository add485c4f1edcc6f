package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
)

// ShoppingListService renders the aggregated shopping list for a
// user's cart as a plain-text document.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build sums amounts per ingredient name across every recipe in the
// user's cart. Amounts are keyed by name only; a name recorded with
// different measurement units is still summed as one key. Lines come
// out in first-encountered order. An empty cart yields an empty
// document.
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) (string, error) {
	type row struct {
		Name   string
		Amount int
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Table("cart_recipes").
		Select("ingredients.name AS name, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = cart_recipes.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("cart_recipes.user_id = ?", userID).
		Order("cart_recipes.id, recipe_ingredients.id").
		Scan(&rows).Error
	if err != nil {
		return "", apperror.NewDatabase("failed to build shopping list", err)
	}

	totals := make(map[string]int, len(rows))
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, seen := totals[r.Name]; !seen {
			order = append(order, r.Name)
		}
		totals[r.Name] += r.Amount
	}

	var b strings.Builder
	for _, name := range order {
		fmt.Fprintf(&b, "%s — %dg\n", name, totals[name])
	}
	return b.String(), nil
}
