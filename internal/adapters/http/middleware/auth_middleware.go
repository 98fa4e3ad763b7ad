package middleware

import (
	"strings"

	"consultease/internal/config"
	"consultease/internal/core/domain"
	"consultease/internal/pkg/jwt"
	"consultease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ActorKey is the context local holding the authenticated actor
const ActorKey = "actor"

// actorFromClaims builds the authorization subject from token claims
func actorFromClaims(claims *jwt.Claims) *domain.Actor {
	role, _ := domain.ParseRole(claims.Role)
	return &domain.Actor{
		UserID:      claims.UserID,
		Role:        role,
		IsOwner:     claims.IsOwner,
		IsSuperuser: claims.IsSuperuser,
	}
}

// extractToken pulls the access token from cookie or Authorization header
func extractToken(c *fiber.Ctx) string {
	// 1. Try to get token from cookie first
	accessToken := c.Cookies("access_token")

	// 2. If not in cookie, try Authorization header
	if accessToken == "" {
		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	return accessToken
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)

		// 1. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 2. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 3. Set actor in context
		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		c.Locals(ActorKey, actorFromClaims(claims))

		return c.Next()
	}
}

// ActorFromContext returns the authenticated actor, or nil for
// unauthenticated requests
func ActorFromContext(c *fiber.Ctx) *domain.Actor {
	actor, _ := c.Locals(ActorKey).(*domain.Actor)
	return actor
}

// RequireRank creates middleware allowing only actors at or above a role.
// Superusers always pass.
func RequireRank(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actor.IsSuperuser || actor.Role.AtLeast(min) {
			return c.Next()
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// StaffOnly allows any staff role, rejecting client portal accounts
func StaffOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)
		if actor == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !actor.IsStaff() {
			return response.Forbidden(c, "Staff access only")
		}
		return c.Next()
	}
}

// ManagerUp allows manager and above
func ManagerUp() fiber.Handler {
	return RequireRank(domain.RoleManager)
}

// AdminOnly allows admin and above
func AdminOnly() fiber.Handler {
	return RequireRank(domain.RoleAdmin)
}

// OptionalAuth middleware - doesn't require auth but sets actor if token present
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)

		// If token exists, validate and set actor
		if accessToken != "" {
			claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
			if err == nil {
				c.Locals("userID", claims.UserID)
				c.Locals("username", claims.Username)
				c.Locals("role", claims.Role)
				c.Locals(ActorKey, actorFromClaims(claims))
			}
		}

		return c.Next()
	}
}
