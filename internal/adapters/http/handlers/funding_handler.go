package handlers

import (
	"errors"

	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// FundingHandler handles scheme and application endpoints
type FundingHandler struct {
	fundingService *services.FundingService
}

// NewFundingHandler creates a new funding handler
func NewFundingHandler(fundingService *services.FundingService) *FundingHandler {
	return &FundingHandler{fundingService: fundingService}
}

// ListSchemes handles listing active schemes
// @Summary List schemes
// @Description List active government funding schemes
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /schemes [get]
func (h *FundingHandler) ListSchemes(c *fiber.Ctx) error {
	schemes, err := h.fundingService.ListSchemes(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list schemes")
	}
	return response.Success(c, "Schemes retrieved successfully", schemes)
}

// GetScheme handles fetching a scheme
// @Summary Get scheme
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scheme ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schemes/{id} [get]
func (h *FundingHandler) GetScheme(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	scheme, err := h.fundingService.GetScheme(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSchemeNotFound) {
			return response.NotFound(c, "Scheme not found")
		}
		return response.InternalServerError(c, "Failed to get scheme")
	}

	return response.Success(c, "Scheme retrieved successfully", scheme)
}

// CreateScheme handles scheme creation
// @Summary Create scheme
// @Description Register a new funding scheme (admin only)
// @Tags Schemes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateSchemeInput true "Scheme data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /schemes [post]
func (h *FundingHandler) CreateScheme(c *fiber.Ctx) error {
	var input services.CreateSchemeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	scheme, err := h.fundingService.CreateScheme(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create scheme")
	}

	return response.Created(c, "Scheme created successfully", scheme)
}

// DeactivateScheme handles scheme deactivation
// @Summary Deactivate scheme
// @Description Deactivate a scheme so no new applications can target it
// @Tags Schemes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scheme ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /schemes/{id} [delete]
func (h *FundingHandler) DeactivateScheme(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.fundingService.DeactivateScheme(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrSchemeNotFound) {
			return response.NotFound(c, "Scheme not found")
		}
		return response.InternalServerError(c, "Failed to deactivate scheme")
	}

	return response.Success(c, "Scheme deactivated", nil)
}

// CreateApplication handles application creation
// @Summary Create application
// @Description File a funding application for a client against a scheme
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateApplicationInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applications [post]
func (h *FundingHandler) CreateApplication(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var input services.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	app, err := h.fundingService.CreateApplication(c.Context(), actor, &input)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrSchemeNotFound):
			return response.BadRequest(c, "Scheme not found or inactive")
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to create application")
	}

	return response.Created(c, "Application created successfully", app)
}

// SubmitApplication handles application submission
// @Summary Submit application
// @Description Move a DRAFT application to SUBMITTED
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Router /applications/{id}/submit [post]
func (h *FundingHandler) SubmitApplication(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	app, err := h.fundingService.SubmitApplication(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, app); handled {
			return resp
		}
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to submit application")
	}

	return response.Success(c, "Application submitted", app)
}

// DecideApplicationRequest represents an application decision body
type DecideApplicationRequest struct {
	Approved bool `json:"approved"`
}

// DecideApplication handles application approval or rejection
// @Summary Decide application
// @Description Approve or reject a SUBMITTED application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body DecideApplicationRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications/{id}/decide [post]
func (h *FundingHandler) DecideApplication(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req DecideApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.fundingService.DecideApplication(c.Context(), actor, id, req.Approved)
	if err != nil {
		if handled, resp := flowError(c, err, app); handled {
			return resp
		}
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to decide application")
	}

	return response.Success(c, "Application decided", app)
}

// ListApplicationsByClient lists a client's applications
// @Summary List client applications
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Router /clients/{id}/applications [get]
func (h *FundingHandler) ListApplicationsByClient(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	apps, err := h.fundingService.ListApplicationsByClient(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to list applications")
	}

	return response.Success(c, "Applications retrieved successfully", apps)
}
