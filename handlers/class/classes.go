package class

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/model"
	"github.com/sportscamp/sportscamp-api/services"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"github.com/sportscamp/sportscamp-api/utils/response"
	"github.com/sportscamp/sportscamp-api/utils/validation"
)

// ClassHandler handles class catalog requests
type ClassHandler struct {
	catalog   *services.CatalogService
	validator *validation.Validator
}

// NewClassHandler creates a new class handler
func NewClassHandler(catalog *services.CatalogService) *ClassHandler {
	return &ClassHandler{
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

// CreateClassRequest represents the request body for creating a class
type CreateClassRequest struct {
	Name  string  `json:"name" validate:"required,min=3,max=255"`
	Image string  `json:"image" validate:"omitempty,max=2048"`
	Price float64 `json:"price" validate:"required,gt=0"`
	Seats int     `json:"seats" validate:"required,gte=1"`
}

// UpdateSeatsPriceRequest represents the request body for a seats and
// price update
type UpdateSeatsPriceRequest struct {
	Seats int     `json:"seats" validate:"gte=0"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

// FeedbackRequest represents the request body for class feedback
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=2000"`
}

// ListApproved handles GET /all-classes
func (h *ClassHandler) ListApproved(c *fiber.Ctx) error {
	classes, err := h.catalog.ListApproved(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch classes")
	}
	return response.Success(c, classes)
}

// ListPopular handles GET /popular-classes
func (h *ClassHandler) ListPopular(c *fiber.Ctx) error {
	classes, err := h.catalog.ListPopular(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch classes")
	}
	return response.Success(c, classes)
}

// ListPending handles GET /pending-classes (admin review view; returns
// every class regardless of status, as the dashboard shows all)
func (h *ClassHandler) ListPending(c *fiber.Ctx) error {
	classes, err := h.catalog.ListAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch classes")
	}
	return response.Success(c, classes)
}

// ListMine handles GET /my-classes (instructor). The owner filter comes
// from the verified identity, never from a query parameter.
func (h *ClassHandler) ListMine(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	classes, err := h.catalog.ListByInstructor(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch classes")
	}
	return response.Success(c, classes)
}

// Create handles POST /all-classes (instructor)
func (h *ClassHandler) Create(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok || claims == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	cls := model.Class{
		Name:            validation.SanitizeString(req.Name),
		Image:           req.Image,
		InstructorName:  claims.Name,
		InstructorEmail: claims.Email,
		Price:           req.Price,
		Seats:           req.Seats,
	}
	if err := h.catalog.Create(c.Context(), &cls); err != nil {
		return response.InternalServerError(c, "Failed to create class")
	}

	return response.Created(c, cls)
}

// Approve handles PATCH /all-classes/approved/:id (admin)
func (h *ClassHandler) Approve(c *fiber.Ctx) error {
	return h.setStatus(c, model.ClassStatusApproved)
}

// Deny handles PATCH /all-classes/deny/:id (admin)
func (h *ClassHandler) Deny(c *fiber.Ctx) error {
	return h.setStatus(c, model.ClassStatusDenied)
}

func (h *ClassHandler) setStatus(c *fiber.Ctx, status string) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid class id")
	}

	if err := h.catalog.SetStatus(c.Context(), id, status); err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, "Failed to update class status")
	}

	return response.SuccessWithMessage(c, "Class status updated", fiber.Map{"id": id, "status": status})
}

// UpdateSeatsAndPrice handles PATCH /update-classes/:id (instructor or
// admin). An instructor may only touch their own class.
func (h *ClassHandler) UpdateSeatsAndPrice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid class id")
	}

	var req UpdateSeatsPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	role, _ := c.Locals("user_role").(string)
	if role == model.RoleInstructor {
		email, _ := middleware.GetUserEmail(c)
		cls, err := h.catalog.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrClassNotFound) {
				return response.NotFound(c, "Class not found")
			}
			return response.InternalServerError(c, "Failed to fetch class")
		}
		if cls.InstructorEmail != email {
			return response.Forbidden(c, "Not your class")
		}
	}

	if err := h.catalog.SetSeatsAndPrice(c.Context(), id, req.Seats, req.Price); err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, "Failed to update class")
	}

	return response.SuccessWithMessage(c, "Class updated successfully", fiber.Map{"id": id})
}

// UpdateFeedback handles PATCH /update-feedback/:id (admin)
func (h *ClassHandler) UpdateFeedback(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid class id")
	}

	var req FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.catalog.SetFeedback(c.Context(), id, validation.SanitizeString(req.Feedback)); err != nil {
		if errors.Is(err, services.ErrClassNotFound) {
			return response.NotFound(c, "Class not found")
		}
		return response.InternalServerError(c, "Failed to update feedback")
	}

	return response.SuccessWithMessage(c, "Feedback saved", fiber.Map{"id": id})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
