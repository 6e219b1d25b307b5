package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/utils/auth"
	"github.com/sportscamp/sportscamp-api/utils/response"
)

// RoleResolver looks up the caller's current stored role. The lookup
// happens on every gated call, never from the token, so a role revoked
// after token issuance is honored immediately.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (string, error)
}

// AuthMiddleware is the access gate: it authenticates bearer tokens and
// authorizes roles. Authentication always runs before any role lookup.
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	roles            RoleResolver
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, blacklistService *auth.BlacklistService, roles RoleResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: blacklistService,
		roles:            roles,
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		tokenString := parts[1]

		// Validate token
		claims, err := m.jwtManager.Verify(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		// Check if token is revoked (blacklisted)
		if m.blacklistService != nil {
			isRevoked, err := m.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
			if err != nil {
				return response.InternalServerError(c, "Failed to check token status")
			}
			if isRevoked {
				return response.Unauthorized(c, "Token has been revoked")
			}
		}

		// Store identity in context
		c.Locals("user_email", claims.Email)
		c.Locals("claims", claims)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// RequireRole is middleware that requires a specific stored role. It
// must be chained after Required: a missing credential short-circuits
// there before any role lookup happens.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := GetUserEmail(c)
		if !ok || email == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		role, err := m.roles.RoleOf(c.Context(), email)
		if err != nil {
			return response.InternalServerError(c, "Failed to resolve role")
		}

		for _, r := range roles {
			if role == r {
				c.Locals("user_role", role)
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// RequireAdmin is shorthand for RequireRole("admin")
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRole("admin")
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *fiber.Ctx) (string, bool) {
	email := c.Locals("user_email")
	if email == nil {
		return "", false
	}
	e, ok := email.(string)
	return e, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("token_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
