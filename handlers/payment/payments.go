package payment

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

// PaymentHandler handles payment orchestration requests
type PaymentHandler struct {
	payments  *services.PaymentService
	validator *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments:  payments,
		validator: validation.NewValidator(),
	}
}

// CreateIntentRequest represents the request body for a payment intent
type CreateIntentRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// SettleRequest represents the request body for settling a payment.
// The booking being retired is named explicitly; the payment gets its
// own identifier.
type SettleRequest struct {
	BookingID       string  `json:"booking_id" validate:"required,max=36"`
	ClassID         uint    `json:"class_id" validate:"required,min=1"`
	ClassName       string  `json:"class_name" validate:"omitempty,max=255"`
	InstructorEmail string  `json:"instructor_email" validate:"omitempty,email"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	TransactionID   string  `json:"transaction_id" validate:"omitempty,max=100"`
}

// CreateIntent handles POST /create-payment-intent. Only the
// client-facing secret leaves the server.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req CreateIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	clientSecret, err := h.payments.CreateIntent(c.Context(), req.Price)
	if err != nil {
		return response.BadGateway(c, "Failed to create payment intent")
	}

	return response.Success(c, fiber.Map{"clientSecret": clientSecret})
}

// Settle handles POST /payments: record the payment and retire the
// booking. Both outcomes are returned; a booking that was already gone
// shows up as zero deleted rows, not an error.
func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req SettleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	payment := &model.Payment{
		BookingID:       req.BookingID,
		ClassID:         req.ClassID,
		ClassName:       validation.SanitizeString(req.ClassName),
		StudentEmail:    email,
		InstructorEmail: req.InstructorEmail,
		Amount:          req.Amount,
		TransactionID:   req.TransactionID,
	}

	result, err := h.payments.Settle(c.Context(), payment)
	if err != nil {
		return response.InternalServerError(c, "Failed to settle payment")
	}

	return response.Success(c, result)
}

// FinalizeSeat handles PATCH /all-classes/seats/:id: one seat moves
// from remaining capacity to the enrolled count.
func (h *PaymentHandler) FinalizeSeat(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid class id")
	}

	cls, err := h.payments.FinalizeSeat(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClassNotFound):
			return response.NotFound(c, "Class not found")
		case errors.Is(err, services.ErrClassFull):
			return response.Conflict(c, "Class has no remaining seats")
		default:
			return response.InternalServerError(c, "Failed to update seats")
		}
	}

	return response.Success(c, cls)
}

// EnrolledClasses handles GET /enroll-classes for the caller.
func (h *PaymentHandler) EnrolledClasses(c *fiber.Ctx) error {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	payments, classes, err := h.payments.EnrolledClasses(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch enrollments")
	}

	return response.Success(c, fiber.Map{
		"enroll_classes": classes,
		"payments":       payments,
	})
}

// List handles GET /payments (admin)
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.payments.ListAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch payments")
	}
	return response.Success(c, payments)
}
