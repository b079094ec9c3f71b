package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/coldstore/internal/service/auth"
)

// contextEmailKey is where the authenticated operator email is stored.
const contextEmailKey = "operator_email"

// RequireAuth validates the Bearer token on every request it wraps.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		claims, err := svc.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(contextEmailKey, claims.Email)
		c.Next()
	}
}

// OperatorEmail returns the authenticated email set by RequireAuth.
func OperatorEmail(c *gin.Context) string {
	return c.GetString(contextEmailKey)
}
