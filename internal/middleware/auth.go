package middleware

import (
	"net/http"
	"strings"

	"github.com/sambadiop7-hash/fibem-school/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware валидирует Bearer-токен и кладет userId/role в контекст.
func AuthMiddleware(tm *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		userID, role, err := tm.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userId", userID)
		c.Set("userRole", role)

		c.Next()
	}
}

// AdminOnly пускает дальше только роль admin. Вешается ПОСЛЕ AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admins only"})
			return
		}
		c.Next()
	}
}
