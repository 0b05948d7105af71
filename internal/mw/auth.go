package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"canchas-backend/internal/auth"
)

const ownerFieldKey = "owner_field_id"

// TokenParser validates an owner session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// OwnerAuth requires a valid "Authorization: Bearer <token>" header and stores
// the owner's field id in the context. With optional set, requests without a
// header pass through anonymously; a malformed or expired token is still rejected.
func OwnerAuth(parser TokenParser, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Falta el token de sesión"})
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Formato de token inválido"})
			return
		}

		claims, err := parser.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sesión inválida o vencida"})
			return
		}

		c.Set(ownerFieldKey, claims.FieldID)
		c.Next()
	}
}

// OwnerFieldID returns the field id of the authenticated owner, if any.
func OwnerFieldID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ownerFieldKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
