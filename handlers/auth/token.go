package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"github.com/sportscamp/sportscamp-api/utils/response"
	"github.com/sportscamp/sportscamp-api/utils/validation"
)

// IssueTokenRequest is the body of POST /jwt: the client identifies
// itself after an external sign-in and receives a bearer token.
type IssueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
}

// IssueToken handles POST /jwt. It signs a token for the given
// identity with the fixed 2 hour expiry window. Roles are never baked
// into the token, so handing a token to an identity grants nothing the
// role lookup does not confirm.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if !validation.ValidateEmail(req.Email) {
		return response.BadRequest(c, "Invalid email")
	}

	token, _, err := h.jwtManager.Issue(req.Email, validation.SanitizeString(req.Name))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	return response.Success(c, fiber.Map{"token": token})
}

// Logout revokes the presented token by blacklisting its JTI until the
// token would have expired anyway.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok || claims == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	if claims.ExpiresAt != nil {
		err := h.blacklistService.RevokeToken(c.Context(), claims.ID, claims.Email, claims.ExpiresAt.Time, "logout")
		if err != nil {
			return response.InternalServerError(c, "Failed to revoke token")
		}
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
