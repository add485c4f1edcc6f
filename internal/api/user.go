package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IvanKorch1289/foodgram/internal/pagination"
	"github.com/IvanKorch1289/foodgram/internal/service"
	"github.com/IvanKorch1289/foodgram/internal/types"
)

type UserHandler struct {
	users   *service.UserService
	follows *service.FollowService
	views   *service.ViewService
}

func NewUserHandler(users *service.UserService, follows *service.FollowService, views *service.ViewService) *UserHandler {
	return &UserHandler{users: users, follows: follows, views: views}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", requireUser, h.Me)
		users.PUT("/me/avatar", requireUser, h.SetAvatar)
		users.DELETE("/me/avatar", requireUser, h.DeleteAvatar)
		users.GET("/subscriptions", requireUser, h.ListSubscriptions)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/subscribe", requireUser, h.Subscribe)
		users.DELETE("/:id/subscribe", requireUser, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	params := pagination.FromQuery(c)
	users, count, err := h.users.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]types.UserView, 0, len(users))
	for i := range users {
		view, err := h.views.User(c.Request.Context(), &users[i], requester(c))
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, *view)
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, params, count, results))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.User(c.Request.Context(), user, requester(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := currentUserID(c)
	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.views.User(c.Request.Context(), user, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req types.AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": user.Avatar})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, _ := currentUserID(c)
	if err := h.users.DeleteAvatar(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the requester follows, each
// with a recipes_limit-truncated recipe slice and total recipe count.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := currentUserID(c)
	params := pagination.FromQuery(c)
	limit := pagination.RecipesLimit(c)

	authors, count, err := h.follows.ListFollowing(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]types.UserWithRecipesView, 0, len(authors))
	for i := range authors {
		view, err := h.views.UserWithRecipes(c.Request.Context(), &authors[i], &userID, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, *view)
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, params, count, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, _ := currentUserID(c)
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}

	author, err := h.follows.Follow(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.views.UserWithRecipes(c.Request.Context(), author, &userID, pagination.RecipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, _ := currentUserID(c)
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.follows.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
