package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/perevoscic/envitefy-sub005/internal/model"
	"github.com/perevoscic/envitefy-sub005/pkg/token"
)

// TokenValidator defines the interface for access token validation
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// ClaimsKey is the context key for token claims
const ClaimsKey contextKey = "claims"

// UserEmailKey is the context key for user email
const UserEmailKey contextKey = "userEmail"

// UserPhoneKey is the context key for user phone
const UserPhoneKey contextKey = "userPhone"

// Auth returns a middleware that requires a valid bearer token
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(validator, r)
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					model.NewUnauthorizedError("token expired").WriteJSON(w)
					return
				}
				model.NewUnauthorizedError("invalid or missing bearer token").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication. It sets
// user info in context when a valid token is present and otherwise lets
// the request through anonymously, which is how guests sign up.
func OptionalAuth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(validator, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func claimsFromRequest(validator TokenValidator, r *http.Request) (*token.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, token.ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, token.ErrInvalidToken
	}

	return validator.Validate(parts[1])
}

func withClaims(ctx context.Context, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, UserPhoneKey, claims.Phone)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserEmail extracts the user email from context
func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetUserPhone extracts the user phone from context
func GetUserPhone(ctx context.Context) string {
	if phone, ok := ctx.Value(UserPhoneKey).(string); ok {
		return phone
	}
	return ""
}

// GetClaims extracts the token claims from context
func GetClaims(ctx context.Context) *token.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}
