// internal/middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"game-catalog-backend/internal/apperr"
	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/models"
)

const claimsKey = "claims"

func abortWith(c *gin.Context, e *apperr.Error) {
	c.AbortWithStatusJSON(e.Kind.Status(), gin.H{"error": e.Message})
}

// AuthMiddleware проверяет Bearer токен и кладет claims в контекст.
// Нет токена и невалидный токен - всегда 401, до любых проверок роли.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWith(c, apperr.Unauthenticated("No token provided"))
			return
		}

		claims, err := tokens.Parse(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrTokenRevoked) {
				slog.ErrorContext(c.Request.Context(), "token verification failed",
					"error", err, "request_id", RequestID(c))
				abortWith(c, apperr.New(apperr.KindInternal, "Internal server error"))
				return
			}
			abortWith(c, apperr.Unauthenticated("Invalid or expired token"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin пропускает только role == 1. Без AuthMiddleware перед ним
// claims нет, и запрос просто получает 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok || claims.Role != models.RoleAdmin {
			abortWith(c, apperr.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

// CurrentClaims claims текущего запроса, если AuthMiddleware их положил
func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
