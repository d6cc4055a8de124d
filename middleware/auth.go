package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

const (
	// ContextUserID is the key for the authenticated user's id in gin context.
	ContextUserID = "user_id"
	// ContextUsername is the key for the authenticated user's name.
	ContextUsername = "username"
	// ContextUserRole is the key for the authenticated user's role.
	ContextUserRole = "user_role"
)

// Auth validates the Bearer token and sets the user claims in context.
func Auth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c, authService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			c.Abort()
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth sets user claims when a valid token is present but lets
// anonymous requests through. Used on submission endpoints, which accept
// both authenticated and anonymous respondents.
func OptionalAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c, authService); ok {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, authService *services.AuthService) (*services.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		// Websocket clients cannot set headers; fall back to a query token.
		if token := c.Query("token"); token != "" {
			claims, err := authService.ValidateToken(token)
			return claims, err == nil
		}
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setClaims(c *gin.Context, claims *services.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextUserRole, claims.Role)
}
