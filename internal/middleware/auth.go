package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.Abort()
			httperr.Unauthorized(c, "missing_authorization_header", "Authentication credentials were not provided.")
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.Abort()
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is present. Requests
// with a bad token are still rejected so a stale session is never
// silently treated as a guest.
func OptionalAuth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			c.Abort()
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != models.RoleAdmin {
			c.Abort()
			httperr.Respond(c, httperr.Forbidden("admin_only", "Administrator access required."))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(ContextUserRole) == models.RoleAdmin
}

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, claims.Role)
}

// bearer reads the Authorization header, falling back to the
// access_token query parameter browsers use for websocket upgrades.
func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := c.Query("access_token"); q != "" {
			return q, true
		}
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
