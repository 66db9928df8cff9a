package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"kardus/internal/domain/actor"
	"kardus/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokens *jwt.Service
}

const (
	ctxActorIDKey   = "actor_id"
	ctxActorRoleKey = "actor_role"
)

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		role, err := actor.ParseRole(claims.Role)
		if err != nil {
			slog.Warn("Token carried unknown role", "role", claims.Role)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxActorIDKey, claims.ActorID)
		c.Set(ctxActorRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"actor_id": claims.ActorID.String(),
			"role":     claims.Role,
		})
		c.Next()
	}
}

// RequireRole rejects authenticated actors of the wrong role before the
// handler runs. Must be chained after RequireAuth.
func (m *AuthMiddleware) RequireRole(role actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		act, ok := CurrentActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if act.Role != role {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentActor returns the authenticated actor stored by RequireAuth.
func CurrentActor(c *gin.Context) (actor.Actor, bool) {
	rawID, exists := c.Get(ctxActorIDKey)
	if !exists {
		return actor.Actor{}, false
	}
	id, ok := rawID.(uuid.UUID)
	if !ok {
		return actor.Actor{}, false
	}

	rawRole, exists := c.Get(ctxActorRoleKey)
	if !exists {
		return actor.Actor{}, false
	}
	role, ok := rawRole.(actor.Role)
	if !ok {
		return actor.Actor{}, false
	}

	return actor.Actor{ID: id, Role: role}, true
}
