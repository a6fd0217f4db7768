package middleware

import (
	"net/http"
	"strings"

	"webnovel/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates requests from a Bearer token and puts the caller's user
// id into the gin context. Requests without a valid identity are rejected
// before any store access happens.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
