package booking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sportscamp/sportscamp-api/services"
	"github.com/sportscamp/sportscamp-api/utils/middleware"
	"github.com/sportscamp/sportscamp-api/utils/response"
	"github.com/sportscamp/sportscamp-api/utils/validation"
)

// BookingHandler handles booking ledger requests
type BookingHandler struct {
	bookings  *services.BookingService
	validator *validation.Validator
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookings:  bookings,
		validator: validation.NewValidator(),
	}
}

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ClassID uint `json:"class_id" validate:"required,min=1"`
}

// Create handles POST /booked-classes. The student identity comes from
// the verified token, not the body.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	booking, err := h.bookings.Book(c.Context(), email, req.ClassID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyBooked):
			return response.Conflict(c, "already selected that class")
		case errors.Is(err, services.ErrClassNotFound):
			return response.NotFound(c, "Class not found")
		case errors.Is(err, services.ErrClassNotBookable):
			return response.BadRequest(c, "Class is not open for booking")
		default:
			return response.InternalServerError(c, "Failed to create booking")
		}
	}

	return response.Created(c, booking)
}

// List handles GET /booked-classes
func (h *BookingHandler) List(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	bookings, err := h.bookings.ListFor(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch bookings")
	}
	return response.Success(c, bookings)
}

// Get handles GET /booked-classes/:id
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	booking, err := h.bookings.GetByID(c.Context(), c.Params("id"), email)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			return response.NotFound(c, "Booking not found")
		}
		return response.InternalServerError(c, "Failed to fetch booking")
	}
	return response.Success(c, booking)
}

// Cancel handles DELETE /booked-classes/:id
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.bookings.Cancel(c.Context(), c.Params("id"), email); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			return response.NotFound(c, "Booking not found")
		}
		return response.InternalServerError(c, "Failed to cancel booking")
	}
	return response.SuccessWithMessage(c, "Booking cancelled", nil)
}
