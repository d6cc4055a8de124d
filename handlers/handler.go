package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abdoux213/Application-de-Sondages-G8/middleware"
	"github.com/abdoux213/Application-de-Sondages-G8/models"
	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

// currentUser rebuilds the acting user from the JWT claims set by the auth
// middleware. Nil means the request is anonymous.
func currentUser(c *gin.Context) *models.User {
	idVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return nil
	}
	user := &models.User{ID: idVal.(uint)}
	if v, ok := c.Get(middleware.ContextUsername); ok {
		user.Username = v.(string)
	}
	if v, ok := c.Get(middleware.ContextUserRole); ok {
		user.Role = v.(string)
	}
	return user
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// renderServiceError maps the service error taxonomy onto HTTP statuses.
// User-facing failures get actionable messages; unknown question types and
// other internals surface as 500.
func renderServiceError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have access to this survey"})
	case errors.Is(err, services.ErrSurveyClosed):
		c.JSON(http.StatusGone, gin.H{"error": "this survey is closed"})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "this survey has reached its response limit"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
