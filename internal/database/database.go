// Package database provides the database abstraction layer for the
// sign-up sheet service.
//
// The Database interface abstracts SurrealDB operations so repositories
// stay independent of the driver. Query returns the rows of a statement,
// QueryOne a single row (ErrNotFound when absent), Execute discards
// results.
//
// Standard errors are defined for the common failure cases; check them
// with errors.Is:
//
//	if errors.Is(err, database.ErrConflict) {
//	    // conditional update lost the race, reload and retry
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a conditional update matched no rows because
	// the stored version changed since it was read.
	ErrConflict = errors.New("version conflict")

	// ErrConnection indicates a failure to connect to or communicate with
	// the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns the rows of its first statement.
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns its first row, or ErrNotFound.
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations).
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
