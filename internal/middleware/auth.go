package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"

	"taskdeck/backend/internal/services"
)

// OwnerKey is the gin context key carrying the authenticated caller's
// user id as a uuid.UUID.
const OwnerKey = "owner_id"

// RequireAuth gates every task route. A missing bearer token is 401;
// a token that fails signature or expiry verification is 403. The
// token is self-contained, so no store access happens here.
func RequireAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authentication required",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.VerifyToken(tokenStr, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(OwnerKey, userID)
		c.Next()
	}
}

// Owner reads the authenticated user id set by RequireAuth.
func Owner(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(OwnerKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
