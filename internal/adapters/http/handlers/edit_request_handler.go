package handlers

import (
	"errors"
	"strconv"

	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// EditRequestHandler handles edit request endpoints
type EditRequestHandler struct {
	editService *services.EditRequestService
}

// NewEditRequestHandler creates a new edit request handler
func NewEditRequestHandler(editService *services.EditRequestService) *EditRequestHandler {
	return &EditRequestHandler{editService: editService}
}

// Create handles edit request creation
// @Summary Create edit request
// @Description Propose a single-field change to a client
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEditRequestInput true "Edit request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /edit-requests [post]
func (h *EditRequestHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var input services.CreateEditRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	req, err := h.editService.CreateEditRequest(c.Context(), actor, &input)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrFieldNotEditable):
			return response.BadRequest(c, "Field is not editable via edit request")
		case errors.Is(err, services.ErrValueUnchanged):
			return response.BadRequest(c, "Requested value matches current value")
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to create edit request")
	}

	return response.Created(c, "Edit request created successfully", req)
}

// Get handles fetching an edit request
// @Summary Get edit request
// @Tags EditRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Edit request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /edit-requests/{id} [get]
func (h *EditRequestHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	req, err := h.editService.GetEditRequest(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrEditRequestNotFound) {
			return response.NotFound(c, "Edit request not found")
		}
		return response.InternalServerError(c, "Failed to get edit request")
	}

	return response.Success(c, "Edit request retrieved successfully", req)
}

// List handles listing edit requests
// @Summary List edit requests
// @Description List edit requests, optionally filtered by status
// @Tags EditRequests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /edit-requests [get]
func (h *EditRequestHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	reqs, total, err := h.editService.ListEditRequests(c.Context(), actor, c.Query("status"), page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list edit requests")
	}

	return response.Success(c, "Edit requests retrieved successfully", fiber.Map{
		"edit_requests": reqs,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// Approve handles edit request approval
// @Summary Approve edit request
// @Description Approve a pending edit request and apply the change
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Edit request ID"
// @Param body body services.DecideEditRequestInput false "Approval notes"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /edit-requests/{id}/approve [post]
func (h *EditRequestHandler) Approve(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input services.DecideEditRequestInput
	if err := c.BodyParser(&input); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		input = services.DecideEditRequestInput{}
	}

	req, err := h.editService.ApproveEditRequest(c.Context(), actor, id, &input)
	if err != nil {
		if handled, resp := flowError(c, err, req); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrEditRequestNotFound):
			return response.NotFound(c, "Edit request not found")
		case errors.Is(err, services.ErrFieldNotEditable):
			return response.BadRequest(c, "Field is not editable via edit request")
		}
		return response.InternalServerError(c, "Failed to approve edit request")
	}

	return response.Success(c, "Edit request approved and applied", req)
}

// Reject handles edit request rejection
// @Summary Reject edit request
// @Description Reject a pending edit request with mandatory notes
// @Tags EditRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Edit request ID"
// @Param body body services.DecideEditRequestInput true "Rejection notes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /edit-requests/{id}/reject [post]
func (h *EditRequestHandler) Reject(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var input services.DecideEditRequestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.editService.RejectEditRequest(c.Context(), actor, id, &input)
	if err != nil {
		if handled, resp := flowError(c, err, req); handled {
			return resp
		}
		if errors.Is(err, services.ErrEditRequestNotFound) {
			return response.NotFound(c, "Edit request not found")
		}
		return response.InternalServerError(c, "Failed to reject edit request")
	}

	return response.Success(c, "Edit request rejected", req)
}

// Apply applies an approved edit request stranded before the combined flow
// @Summary Apply edit request
// @Description Apply an APPROVED edit request to its target entity
// @Tags EditRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Edit request ID"
// @Success 200 {object} response.Response
// @Router /edit-requests/{id}/apply [post]
func (h *EditRequestHandler) Apply(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	req, err := h.editService.ApplyEditRequest(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, req); handled {
			return resp
		}
		switch {
		case errors.Is(err, services.ErrEditRequestNotFound):
			return response.NotFound(c, "Edit request not found")
		case errors.Is(err, services.ErrFieldNotEditable):
			return response.BadRequest(c, "Field is not editable via edit request")
		}
		return response.InternalServerError(c, "Failed to apply edit request")
	}

	return response.Success(c, "Edit request applied", req)
}
