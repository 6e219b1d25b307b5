package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/model"
	authutil "github.com/sportscamp/sportscamp-api/utils/auth"
	"github.com/sportscamp/sportscamp-api/utils/response"
	"github.com/sportscamp/sportscamp-api/utils/validation"
)

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	Photo    string `json:"photo,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Register handles user registration. Every new account starts as a
// student; admin and instructor roles are granted by an admin later.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)

	// Check if email is taken
	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.Conflict(c, "User with this email already exists")
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user := model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		Photo:        req.Photo,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	token, _, err := h.jwtManager.Issue(user.Email, user.Name)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate token")
	}

	res := TokenResponse{
		User: UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		Token:     token,
		ExpiresIn: int(h.jwtManager.Expiry().Seconds()),
	}

	return response.Created(c, res)
}
