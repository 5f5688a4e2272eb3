package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// respondError maps a service error onto its HTTP representation. Internal
// failures are logged and never exposed.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = service.NewInternalError("unexpected error", err)
	}

	switch se.Kind {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, se.Fields)
	case service.KindConflict, service.KindBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"errors": se.Message})
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"detail": se.Message})
	case service.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"detail": se.Message})
	case service.KindUnauthenticated:
		c.JSON(http.StatusUnauthorized, gin.H{"detail": se.Message})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// respondBindError renders a request binding failure as a field map.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, validation.FieldErrors(err))
}

// pathID parses a positive numeric path parameter; anything else is a 404.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}

// recipesLimit parses the optional recipes_limit query parameter. Zero
// means no limit.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"recipes_limit": []string{"A valid non-negative integer is required."}})
		return 0, false
	}
	return n, true
}

// currentUser returns the authenticated user's id or writes a 401.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
	}
	return id, ok
}
