package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
	"github.com/IvanKorch1289/foodgram/internal/models"
	"github.com/IvanKorch1289/foodgram/internal/pagination"
	"github.com/IvanKorch1289/foodgram/internal/service"
	"github.com/IvanKorch1289/foodgram/internal/types"
)

type RecipeHandler struct {
	recipes      *service.RecipeService
	views        *service.ViewService
	favorites    *service.MembershipService[models.FavoriteRecipe]
	cart         *service.MembershipService[models.CartRecipe]
	shoppingList *service.ShoppingListService
	images       service.ImageStore
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	views *service.ViewService,
	favorites *service.MembershipService[models.FavoriteRecipe],
	cart *service.MembershipService[models.CartRecipe],
	shoppingList *service.ShoppingListService,
	images service.ImageStore,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		views:        views,
		favorites:    favorites,
		cart:         cart,
		shoppingList: shoppingList,
		images:       images,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/download_shopping_cart", requireUser, h.DownloadShoppingCart)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", requireUser, h.CreateRecipe)
		recipes.PATCH("/:id", requireUser, h.UpdateRecipe)
		recipes.DELETE("/:id", requireUser, h.DeleteRecipe)
		recipes.POST("/:id/favorite", requireUser, h.AddFavorite)
		recipes.DELETE("/:id/favorite", requireUser, h.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", requireUser, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart", requireUser, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{Requester: requester(c)}

	for _, raw := range c.QueryArray("author") {
		if id, err := uuid.Parse(raw); err == nil {
			filter.Authors = append(filter.Authors, id)
		}
	}
	filter.TagSlugs = c.QueryArray("tags")
	// Requester-scoped boolean filters require explicit authentication;
	// anonymous requests get the unfiltered listing.
	if filter.Requester != nil {
		filter.Favorited = c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true"
		filter.InCart = c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true"
	}

	params := pagination.FromQuery(c)
	recipes, count, err := h.recipes.List(c.Request.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := h.views.Recipe(c.Request.Context(), &recipes[i], requester(c))
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, *view)
	}

	c.JSON(http.StatusOK, pagination.NewPage(c, params, count, results))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Recipe(c.Request.Context(), recipe, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.resolveImage(c, &req) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Recipe(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.resolveImage(c, &req) {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.Recipe(c.Request.Context(), recipe, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addMembership(c, h.favorites.Add)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeMembership(c, h.favorites.Remove)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, h.cart.Add)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, h.cart.Remove)
}

// DownloadShoppingCart streams the aggregated shopping list as a
// plain-text attachment. An empty cart yields an empty document.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := currentUserID(c)
	doc, err := h.shoppingList.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="foodgram.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeShortView, error)) {
	userID, _ := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	view, err := add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, _ := currentUserID(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) resolveImage(c *gin.Context, req *types.RecipeRequest) bool {
	if !strings.HasPrefix(req.Image, "data:") || h.images == nil {
		return true
	}
	data, contentType, err := service.DecodeBase64Image(req.Image)
	if err != nil {
		respondError(c, apperror.NewValidation(map[string]string{"image": "invalid image payload"}))
		return false
	}
	url, err := h.images.Upload(c.Request.Context(), data, contentType, "recipes")
	if err != nil {
		respondError(c, apperror.NewInternal("failed to store image", err))
		return false
	}
	req.Image = url
	return true
}
