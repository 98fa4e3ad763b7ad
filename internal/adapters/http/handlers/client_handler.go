package handlers

import (
	"errors"
	"strconv"

	"consultease/internal/core/services"
	"consultease/internal/pkg/response"
	"consultease/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// RejectClientRequest represents a rejection request body
type RejectClientRequest struct {
	Reason string `json:"reason"`
}

// Create handles client creation
// @Summary Create client
// @Description Create a new client in pending state
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateClientInput true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	var input services.CreateClientInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, validate.Message(err))
	}

	client, err := h.clientService.CreateClient(c.Context(), actor, &input)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.BadRequest(c, "Assigned sales rep does not exist")
		}
		return response.InternalServerError(c, "Failed to create client")
	}

	return response.Created(c, "Client created successfully", client)
}

// Get handles fetching a single client
// @Summary Get client
// @Description Get a client by ID, scoped to the caller's team
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	client, err := h.clientService.GetClient(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to get client")
	}

	return response.Success(c, "Client retrieved successfully", client)
}

// List handles listing clients
// @Summary List clients
// @Description List clients visible to the caller
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param pending query bool false "Only pending clients"
// @Success 200 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	pending := c.Query("pending") == "true"

	result, err := h.clientService.ListClients(c.Context(), actor, &services.ListClientsInput{
		Page:        page,
		Limit:       limit,
		PendingOnly: pending,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list clients")
	}

	return response.Success(c, "Clients retrieved successfully", result)
}

// Approve handles client approval
// @Summary Approve client
// @Description Approve a pending client and issue the portal credential
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/approve [post]
func (h *ClientHandler) Approve(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	client, err := h.clientService.ApproveClient(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, client); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to approve client")
	}

	return response.Success(c, "Client approved successfully", client)
}

// Reject handles client rejection
// @Summary Reject client
// @Description Reject a pending client with a mandatory reason
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Param body body RejectClientRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /clients/{id}/reject [post]
func (h *ClientHandler) Reject(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req RejectClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.RejectClient(c.Context(), actor, id, req.Reason)
	if err != nil {
		if handled, resp := flowError(c, err, client); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Client not found")
		}
		return response.InternalServerError(c, "Failed to reject client")
	}

	return response.Success(c, "Client rejected", client)
}

// GetCredential returns the one-time portal credential for a client
// @Summary Get client credential
// @Description Get the portal credential issued on approval
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/credential [get]
func (h *ClientHandler) GetCredential(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	cred, err := h.clientService.GetCredential(c.Context(), actor, id)
	if err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Credential not found")
		}
		return response.InternalServerError(c, "Failed to get credential")
	}

	return response.Success(c, "Credential retrieved successfully", fiber.Map{
		"username": cred.Username,
		"email":    cred.Email,
		"password": cred.PlainPassword,
		"is_sent":  cred.IsSent,
	})
}

// MarkCredentialSent records credential delivery
// @Summary Mark credential sent
// @Description Record that the credential was delivered to the client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/credential/sent [post]
func (h *ClientHandler) MarkCredentialSent(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.clientService.MarkCredentialSent(c.Context(), actor, id); err != nil {
		if handled, resp := flowError(c, err, nil); handled {
			return resp
		}
		if errors.Is(err, services.ErrClientNotFound) {
			return response.NotFound(c, "Credential not found")
		}
		return response.InternalServerError(c, "Failed to mark credential sent")
	}

	return response.Success(c, "Credential marked as sent", nil)
}
