package middleware

import (
	"net/http"
	"strings"

	"socialposts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// identityKey is the context key holding the authenticated username.
const identityKey = "identity"

// Identity binds the request identity from a bearer token, once per request.
// A missing header, a malformed header, or an invalid token all leave the
// request anonymous; the gate itself never rejects. Rejection belongs to
// RequireUser, which routes opt into.
func Identity(tokens service.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		tokenString := parts[1]
		if !tokens.Validate(tokenString) {
			logger.Debug("Invalid bearer token, proceeding as anonymous")
			c.Next()
			return
		}

		subject, err := tokens.Subject(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, subject)
		c.Next()
	}
}

// RequireUser rejects requests that carry no authenticated identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(identityKey); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUsername returns the identity bound by Identity, if any.
func CurrentUsername(c *gin.Context) (string, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}
