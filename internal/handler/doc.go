// Package handler implements the HTTP boundary of the sign-up API.
//
// Handlers decode requests, validate their gross shape, resolve the
// caller's identity from context and delegate to the service layer.
// Errors are RFC 9457 Problem Details; MapServiceError centralizes the
// mapping from service sentinels to status codes.
//
// # Endpoints
//
//	GET    /health
//	POST   /v1/events/{eventId}/signup-form    create or replace a sheet
//	GET    /v1/events/{eventId}/signup-form    read a sheet (public view)
//	POST   /v1/events/{eventId}/signup         reserve or cancel
//	DELETE /v1/events/{eventId}/signup/{signupId}
//
// Sign-up endpoints accept both authenticated and guest callers. Guests
// prove ownership of a response with the X-Manage-Token header, issued
// once when the response is created.
package handler
