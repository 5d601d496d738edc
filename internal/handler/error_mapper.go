package handler

import (
	"errors"

	"github.com/perevoscic/envitefy-sub005/internal/model"
	"github.com/perevoscic/envitefy-sub005/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring
// consistent HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotOwner):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrFormNotFound):
		return model.NewNotFoundError("signup form")
	case errors.Is(err, service.ErrResponseNotFound):
		return model.NewNotFoundError("signup")

	// ===== Capacity Errors → 409 =====
	case errors.Is(err, service.ErrSlotFull):
		return model.NewSlotFullError(err.Error())
	case errors.Is(err, service.ErrVersionConflict):
		return model.NewConflictError("the signup sheet changed concurrently, please retry")

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrFormNotEnabled):
		return model.NewValidationError([]model.FieldError{{Field: "form", Message: err.Error()}})
	case errors.Is(err, service.ErrNoSlotsSelected),
		errors.Is(err, service.ErrMultiSlotNotAllowed):
		return model.NewValidationError([]model.FieldError{{Field: "slots", Message: err.Error()}})
	case errors.Is(err, service.ErrMissingIdentity):
		return model.NewValidationError([]model.FieldError{{Field: "identity", Message: err.Error()}})
	case errors.Is(err, service.ErrMissingRequiredAnswers):
		return model.NewValidationError([]model.FieldError{{Field: "answers", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
