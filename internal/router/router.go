package router

import (
	"github.com/gin-gonic/gin"

	"github.com/IvanKorch1289/foodgram/internal/api"
	"github.com/IvanKorch1289/foodgram/internal/middleware"
)

// SetupRouter configures the application routes. Authentication is
// resolved once for the whole /api group; anonymous requests pass
// through and route-level guards reject them where needed.
func SetupRouter(
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.TagHandler,
	ingredientHandler *api.IngredientHandler,
	tokens middleware.TokenValidator,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	apiGroup := router.Group("/api")
	apiGroup.Use(middleware.OptionalAuthMiddleware(tokens))

	authHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup)
	tagHandler.RegisterRoutes(apiGroup)
	ingredientHandler.RegisterRoutes(apiGroup)

	return router
}
