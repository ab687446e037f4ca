package database

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned when an operation needs a connection that was never established.
	ErrNotConnected = errors.New("not connected")

	// ErrStatement marks errors where the store received the statement and rejected it
	// (syntax error, missing relation, constraint violation). Connectivity failures are
	// not wrapped with it.
	ErrStatement = errors.New("statement rejected")
)

// Driver defines the interface for the shared store handle.
// All implementations must be safe for concurrent use.
type Driver interface {
	// Connect establishes the connection. Calling it again on a connected
	// driver is a no-op.
	Connect(ctx context.Context, dsn string) error

	// Close closes the database connection.
	Close() error

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// Begin opens a read-only transaction on the shared connection.
	Begin(ctx context.Context) (Tx, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}

// Tx is a single open transaction. A Tx that returned an error from Query must be
// rolled back before the connection is used again.
type Tx interface {
	// Query runs a SQL statement and collects all rows.
	Query(ctx context.Context, sql string) (*QueryResult, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
