package middleware

import (
	"net/http"
	"strings"

	"boardops/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authContextKey = "auth_context"

// RequireAuth validates the Bearer token against the configured signing key
// and stores the caller identity on the gin context. Requests without a
// valid token are rejected with 401.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		rc, err := ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(authContextKey, rc)
		c.Next()
	}
}

// ParseToken verifies an HS256 token and extracts the caller identity.
// Shared with the WebSocket endpoint, which carries the token as a query
// parameter instead of a header.
func ParseToken(secret []byte, tokenString string) (domain.RequestContext, error) {
	var rc domain.RequestContext

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return rc, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if v, ok := claims["user_id"].(float64); ok {
			rc.UserID = domain.ID(v)
		}
		if v, ok := claims["role"].(string); ok {
			rc.Role = v
		}
	}
	return rc, nil
}

// GetAuth returns the identity stored by RequireAuth, if any.
func GetAuth(c *gin.Context) (domain.RequestContext, bool) {
	if v, ok := c.Get(authContextKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc, true
		}
	}
	return domain.RequestContext{}, false
}
