package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/authz"
	"revistas_backend/pkg/utils"
)

const principalKey = "principal"

// AuthMiddleware creates a Gin middleware for JWT authentication. The validated
// caller is stored in the context as an authz.Principal.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Autenticação necessária", "Authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Autenticação necessária", "Use Bearer <token>"))
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token inválido ou expirado", err.Error()))
			return
		}

		c.Set(principalKey, authz.Principal{
			UserID:         claims.UserID,
			Username:       claims.Username,
			Role:           claims.Role,
			CongregationID: claims.CongregationID,
		})
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (authz.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return authz.Principal{}, false
	}
	p, ok := v.(authz.Principal)
	return p, ok
}

// SetPrincipal stores p for downstream handlers.
func SetPrincipal(c *gin.Context, p authz.Principal) {
	c.Set(principalKey, p)
}

// RequireCapability rejects callers that may not perform action at all.
// Ownership-scoped checks stay in the services.
func RequireCapability(action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Autenticação necessária", "missing principal; AuthMiddleware must run first"))
			return
		}
		if !authz.Can(p, action, authz.Resource{}) {
			utils.LogWarn("capability denied", map[string]interface{}{
				"user_id": p.UserID,
				"role":    p.Role,
				"action":  string(action),
			})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Acesso negado", string(action)))
			return
		}
		c.Next()
	}
}
