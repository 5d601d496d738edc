// Package model defines the domain types for the sign-up sheet service.
//
// The root aggregate is SignupForm: an event's sheet of sections and slots,
// its policy settings, custom questions, and every response ever made
// against it. Responses are append/update-only; cancelling a reservation is
// a status transition, never a deletion, so the full reservation history is
// always available for re-deriving confirmed/waitlisted assignments.
//
// Request types carry a Validate method returning field-level errors; the
// error envelope follows RFC 9457 Problem Details (see errors.go).
package model
