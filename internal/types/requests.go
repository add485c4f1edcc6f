package types

import "github.com/google/uuid"

// IngredientAmountRequest is one (ingredient, amount) pair in a
// recipe create/update payload.
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeRequest is the create/update payload for a recipe. The author
// comes from the authenticated request, never from the body.
type RecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
	Image       string                    `json:"image"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AvatarRequest carries a base64 data-URI encoded image.
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

// TokenClaims represents the JWT claims the auth middleware extracts.
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}
