package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Form Errors =====
var (
	ErrFormNotFound   = errors.New("sign-up form not found")
	ErrFormNotEnabled = errors.New("sign-up form is not enabled")
	ErrNotOwner       = errors.New("not authorized to manage this sign-up")
)

// ===== Reservation Errors =====
var (
	ErrNoSlotsSelected        = errors.New("no valid slot selections")
	ErrMultiSlotNotAllowed    = errors.New("multiple slot selections are not allowed for this form")
	ErrMissingIdentity        = errors.New("a display name or identity is required")
	ErrMissingRequiredAnswers = errors.New("one or more required questions are unanswered")
	ErrSlotFull               = errors.New("slot is full")
	ErrResponseNotFound       = errors.New("signup not found")
)

// ===== Persistence Errors =====
var (
	// ErrVersionConflict means the form changed between load and save; the
	// pipeline is retried against the latest version.
	ErrVersionConflict = errors.New("form was modified concurrently")
)
