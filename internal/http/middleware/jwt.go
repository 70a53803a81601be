package middleware

import (
	"errors"
	"net/http"
	"strings"

	"assist_backend/internal/domain"
	"assist_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWT.
const (
	CtxUserID    = "user_id"
	CtxPrincipal = "principal"
)

// TokenVerifier is satisfied by *service.AuthService and *service.TokenService.
type TokenVerifier interface {
	VerifyToken(token string) (domain.Principal, error)
}

// JWT requires an "Authorization: Bearer <token>" header and stores the
// resolved principal in the gin context.
func JWT(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		p, err := v.VerifyToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrExpiredToken) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(CtxUserID, p.UserID)
		c.Set(CtxPrincipal, p)
		c.Next()
	}
}

// RequireRole rejects principals without role. It must run after JWT.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the identity stored by JWT.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
