package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"github.com/sportscamp/sportscamp-api/utils/response"
	"github.com/sportscamp/sportscamp-api/utils/validation"
	"gorm.io/gorm"
)

// UserHandler handles user-related requests
type UserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// UpsertRequest is the body of POST /users, called on first sign-in.
type UpsertRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required,min=2"`
	Photo   string `json:"photo,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Upsert creates a user record on first sign-in. An existing email
// short-circuits without modifying the stored record, so repeated
// sign-ins can never overwrite a role.
func (h *UserHandler) Upsert(c *fiber.Ctx) error {
	var req UpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return response.SuccessWithMessage(c, "user already exists", nil)
	}

	user := model.User{
		Email:   req.Email,
		Name:    validation.SanitizeString(req.Name),
		Role:    model.RoleStudent,
		Photo:   req.Photo,
		Gender:  req.Gender,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	return response.Created(c, user)
}

// List handles GET /users (admin)
func (h *UserHandler) List(c *fiber.Ctx) error {
	var users []model.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}
	return response.Success(c, users)
}

// GetByEmail handles GET /user/:email
func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")

	var user model.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}
	return response.Success(c, user)
}

// ListInstructors handles GET /instructors
func (h *UserHandler) ListInstructors(c *fiber.Ctx) error {
	var users []model.User
	if err := h.db.Where("role = ?", model.RoleInstructor).Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch instructors")
	}
	return response.Success(c, users)
}

// IsAdmin handles GET /users/admin/:email. Callers may only probe
// their own email; any other probe reads as not-admin.
func (h *UserHandler) IsAdmin(c *fiber.Ctx) error {
	return h.roleProbe(c, model.RoleAdmin, "admin")
}

// IsInstructor handles GET /users/instructor/:email
func (h *UserHandler) IsInstructor(c *fiber.Ctx) error {
	return h.roleProbe(c, model.RoleInstructor, "instructor")
}

func (h *UserHandler) roleProbe(c *fiber.Ctx, role, field string) error {
	email := c.Params("email")

	caller, ok := middleware.GetUserEmail(c)
	if !ok || caller != email {
		return response.Success(c, fiber.Map{field: false})
	}

	var user model.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Success(c, fiber.Map{field: false})
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, fiber.Map{field: user.Role == role})
}

// PromoteAdmin handles PATCH /users/admin/:id (admin only)
func (h *UserHandler) PromoteAdmin(c *fiber.Ctx) error {
	return h.setRole(c, model.RoleAdmin)
}

// PromoteInstructor handles PATCH /users/instructor/:id (admin only)
func (h *UserHandler) PromoteInstructor(c *fiber.Ctx) error {
	return h.setRole(c, model.RoleInstructor)
}

func (h *UserHandler) setRole(c *fiber.Ctx, role string) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	res := h.db.Model(&model.User{}).Where("id = ?", uint(id)).Update("role", role)
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to update role")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.SuccessWithMessage(c, "Role updated successfully", fiber.Map{"id": id, "role": role})
}

// Delete handles DELETE /users/:id (admin only)
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user id")
	}

	res := h.db.Delete(&model.User{}, uint(id))
	if res.Error != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		return response.NotFound(c, "User not found")
	}

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}
