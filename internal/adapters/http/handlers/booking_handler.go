package handlers

import (
	"errors"

	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// UpdateFiguresRequest represents a booking figures update
type UpdateFiguresRequest struct {
	PitchedAmount float64 `json:"pitched_amount" validate:"gte=0"`
	GSTPercent    float64 `json:"gst_percent"`
}

// Create handles booking creation
// @Summary Create booking
// @Description Create a booking under a client
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBookingInput true "Booking data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var input services.CreateBookingInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	booking, err := h.bookingService.CreateBooking(c.Context(), actor, &input)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to create booking")
	}

	return response.Created(c, "Booking created successfully", booking)
}

// Get handles fetching a booking
// @Summary Get booking
// @Description Get a booking by ID, scoped to the caller's team
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	booking, err := h.bookingService.GetBooking(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrBookingNotFound) {
			return response.NotFound(c, "Booking not found")
		}
		return response.InternalServerError(c, "Failed to get booking")
	}

	return response.Success(c, "Booking retrieved successfully", booking)
}

// ListByClient lists bookings under a client
// @Summary List client bookings
// @Description List all bookings under a client
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Router /clients/{id}/bookings [get]
func (h *BookingHandler) ListByClient(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	bookings, err := h.bookingService.ListBookingsByClient(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to list bookings")
	}

	return response.Success(c, "Bookings retrieved successfully", bookings)
}

// UpdateFigures updates a booking's pitched amount and GST rate
// @Summary Update booking figures
// @Description Update pitched amount and GST rate, resyncing totals
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Booking ID"
// @Param body body UpdateFiguresRequest true "New figures"
// @Success 200 {object} response.Response
// @Router /bookings/{id}/figures [put]
func (h *BookingHandler) UpdateFigures(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req UpdateFiguresRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	booking, err := h.bookingService.UpdateBookingFigures(c.Context(), actor, id, req.PitchedAmount, req.GSTPercent)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrBookingNotFound) {
			return response.NotFound(c, "Booking not found")
		}
		return response.InternalServerError(c, "Failed to update booking figures")
	}

	return response.Success(c, "Booking figures updated", booking)
}
