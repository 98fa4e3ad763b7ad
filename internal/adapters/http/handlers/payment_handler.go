package handlers

import (
	"errors"

	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles payment recording
// @Summary Record payment
// @Description Record an incoming payment in PENDING state
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordPaymentInput true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	payment, err := h.paymentService.RecordPayment(c.Context(), actor, &input)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to record payment")
	}

	return response.Created(c, "Payment recorded successfully", payment)
}

// Get handles fetching a payment
// @Summary Get payment
// @Description Get a payment by ID, scoped to the caller's team
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetPayment(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to get payment")
	}

	return response.Success(c, "Payment retrieved successfully", payment)
}

// ListByClient lists payments under a client
// @Summary List client payments
// @Description List all payments under a client
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Router /clients/{id}/payments [get]
func (h *PaymentHandler) ListByClient(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	payments, err := h.paymentService.ListPaymentsByClient(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", payments)
}

// Transition moves a payment to a new status
// @Summary Transition payment
// @Description Move a payment along its lifecycle (capture, fail, refund)
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body services.TransitionPaymentInput true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /payments/{id}/transition [post]
func (h *PaymentHandler) Transition(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input services.TransitionPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	payment, err := h.paymentService.Transition(c.Context(), actor, id, &input)
	if err != nil {
		if handled, resp := flowError(c, err, payment); handled {
			return resp
		}
		if errors.Is(err, services.ErrPaymentNotFound) {
			return response.NotFound(c, "Payment not found")
		}
		return response.InternalServerError(c, "Failed to transition payment")
	}

	return response.Success(c, "Payment transitioned successfully", payment)
}
