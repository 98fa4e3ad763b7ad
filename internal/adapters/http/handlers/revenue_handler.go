package handlers

import (
	"strconv"

	"consultease/internal/adapters/persistence/models"
	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// RevenueHandler handles revenue and GST endpoints
type RevenueHandler struct {
	revenueService *services.RevenueService
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(revenueService *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService}
}

// SetFiguresRequest represents a direct figures write
type SetFiguresRequest struct {
	PitchedAmount  float64 `json:"pitched_amount" validate:"gte=0"`
	GSTPercent     float64 `json:"gst_percent"`
	ReceivedAmount float64 `json:"received_amount" validate:"gte=0"`
}

// SetClientFigures sets a client's revenue figures directly
// @Summary Set client figures
// @Description Set pitched amount, GST rate, and received amount for a client
// @Tags Revenue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param body body SetFiguresRequest true "Figures"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /revenue/clients/{id}/figures [put]
func (h *RevenueHandler) SetClientFigures(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req SetFiguresRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	figures, err := h.revenueService.SetClientFigures(
		c.Context(), id, req.PitchedAmount, req.GSTPercent, req.ReceivedAmount,
		models.RevenueSourceDirect, actor.UserID,
	)
	if err != nil {
		return response.InternalServerError(c, "Failed to set client figures")
	}

	return response.Success(c, "Client figures updated", figures)
}

// SyncClient recomputes a client's figures from its bookings
// @Summary Sync client revenue
// @Description Recompute a client's figures from the sum of its bookings
// @Tags Revenue
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Router /revenue/clients/{id}/sync [post]
func (h *RevenueHandler) SyncClient(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	figures, err := h.revenueService.SyncClient(c.Context(), id, models.RevenueSourceAggregate, actor.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to sync client revenue")
	}

	return response.Success(c, "Client revenue synced", figures)
}

// ListLedger lists a client's revenue ledger entries
// @Summary List revenue ledger
// @Description List the append-only revenue entries recorded for a client
// @Tags Revenue
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /revenue/clients/{id}/ledger [get]
func (h *RevenueHandler) ListLedger(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	entries, total, err := h.revenueService.ListLedger(c.Context(), id, page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list revenue ledger")
	}

	return response.Success(c, "Revenue ledger retrieved successfully", fiber.Map{
		"entries": entries,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Sweep recomputes figures for every client
// @Summary Revenue sweep
// @Description Recompute figures for every client (Admin only)
// @Tags Revenue
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /revenue/sweep [post]
func (h *RevenueHandler) Sweep(c *fiber.Ctx) error {
	if err := h.revenueService.SweepAll(c.Context()); err != nil {
		return response.InternalServerError(c, "Revenue sweep failed")
	}
	return response.Success(c, "Revenue sweep completed", nil)
}
