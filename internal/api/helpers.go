package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
)

// respondError maps an application error to its HTTP response. A
// validation error renders its field -> message map as the body.
// Internal detail stays in the server log.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.Validation:
			if len(appErr.Fields) > 0 {
				c.JSON(appErr.StatusCode(), appErr.Fields)
				return
			}
			c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
		case apperror.Internal, apperror.Database:
			log.Printf("Error: %v", appErr)
			c.JSON(appErr.StatusCode(), gin.H{"error": "internal server error"})
		default:
			c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
		}
		return
	}

	log.Printf("Error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// currentUserID returns the authenticated user set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// requester returns the authenticated user or nil for anonymous
// requests; projector methods take it as-is.
func requester(c *gin.Context) *uuid.UUID {
	if id, ok := currentUserID(c); ok {
		return &id
	}
	return nil
}

// requireUser guards mutating routes; the optional auth middleware has
// already resolved the token if one was sent.
func requireUser(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		c.Abort()
		return
	}
	c.Next()
}

// parseID parses a uuid path parameter.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
