// Package middleware provides HTTP middleware for the sign-up API.
//
// # Available Middleware
//
//   - RequestID: attaches a unique identifier to every request
//   - Logger: structured request logging via slog
//   - Recovery: converts panics into 500 responses
//   - CORS: origin checks for browser clients
//   - Compress: gzip response compression
//   - Auth / OptionalAuth: bearer token validation
//
// # Authentication
//
// Auth rejects requests without a valid bearer token; OptionalAuth lets
// anonymous requests through, which is how guest sign-ups work. After
// either, handlers read the caller's identity from context:
//
//	userID := middleware.GetUserID(r.Context())
//	email := middleware.GetUserEmail(r.Context())
//
// An empty user ID means the caller is a guest.
package middleware
