package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is the gin context key holding the authenticated user id.
const ContextUserKey = "userID"

// RequireAuth enforces bearer JWT tokens signed with HS256 and attaches the
// resolved user id to the request context.
func RequireAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied, no token given"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(ContextUserKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth, or "".
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserKey)
}
