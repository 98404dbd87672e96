package middleware

import (
	"strings"

	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/response"
	"anoa.com/recruitportal/pkg/token"
	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key of the verified token.Identity.
const IdentityKey = "identity"

type TokenParser interface {
	Parse(tokenString string) (*token.Identity, error)
}

type AuthMiddleware struct {
	tokens TokenParser
}

func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth accepts "Authorization: Bearer <token>". A missing token is
// 401, a bad or expired one 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		if tokenString == "" {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, i18n.AuthTokenRequired, nil))
			return
		}

		identity, err := m.tokens.Parse(tokenString)
		if err != nil {
			response.AbortWithError(c, apperror.New(apperror.KindForbidden, i18n.AuthTokenInvalid, err))
			return
		}

		c.Set(IdentityKey, *identity)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.AbortWithError(c, apperror.New(apperror.KindUnauthenticated, i18n.AuthTokenRequired, nil))
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		response.AbortWithError(c, apperror.Forbidden(i18n.AuthRoleForbidden))
	}
}

func IdentityFrom(c *gin.Context) (token.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return token.Identity{}, false
	}
	identity, ok := v.(token.Identity)
	return identity, ok
}
