package handlers

import (
	"errors"
	"strconv"

	"consultease/internal/adapters/http/middleware"
	"consultease/internal/core/domain"
	"consultease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// requireActor pulls the authenticated actor off the request context
func requireActor(c *fiber.Ctx) (*domain.Actor, error) {
	actor := middleware.ActorFromContext(c)
	if actor == nil {
		return nil, response.Unauthorized(c, "Unauthorized")
	}
	return actor, nil
}

// idParam parses the :id route parameter
func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, response.BadRequest(c, "Invalid ID")
	}
	return uint(id), nil
}

// flowError maps the shared approval-flow errors onto HTTP responses.
// Already-processed and invalid-transition are warnings on a 200, not
// failures: the record simply is not in the state the caller assumed.
// Returns false when the error is not a flow error and the caller must
// handle it.
func flowError(c *fiber.Ctx, err error, data interface{}) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrAccessDenied):
		return true, response.Forbidden(c, "Access denied")
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return true, response.Warning(c, "Record already processed", data)
	case errors.Is(err, domain.ErrInvalidTransition):
		return true, response.Warning(c, "Invalid status transition", data)
	case errors.Is(err, domain.ErrReasonRequired):
		return true, response.BadRequest(c, "A reason is required")
	}
	return false, nil
}
