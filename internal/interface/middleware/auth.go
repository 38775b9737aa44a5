package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tkarls/memberbase/pkg/helpers"
	"github.com/tkarls/memberbase/pkg/response"
)

// Auth validates the bearer token on the Authorization header. A missing or
// unverifiable token yields 401; a token that was valid but has expired
// yields 403. On success userID and userEmail are set in the Gin context.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.Error[any](c, http.StatusForbidden, "token expired", nil)
			} else {
				response.Error[any](c, http.StatusUnauthorized, "invalid token", nil)
			}
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
