package handler

import (
	"errors"

	"github.com/gatherly/api/internal/database"
	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring
// consistent HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// Validation errors arrive as ready-made problems.
	var problem *model.ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrUnauthenticated):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotEventOwner):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, service.ErrRSVPNotFound):
		return model.NewNotFoundError("RSVP")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrDuplicateRSVP):
		return model.NewConflictError(err.Error())

	// ===== Upstream Errors → 502 =====
	case errors.Is(err, database.ErrConnection):
		return model.NewUpstreamError("database unavailable")

	// ===== Everything Else → 500 =====
	default:
		return model.NewInternalError("")
	}
}
