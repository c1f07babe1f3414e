// Package datasource provides read-only access to the sales warehouse.
package datasource

import "context"

// SQLExecutor executes generated SQL against the warehouse.
// Use this interface for dependency injection to enable mocking in tests.
type SQLExecutor interface {
	// Execute runs one statement and returns its results.
	Execute(ctx context.Context, query string) (*QueryResult, error)

	// TestConnection verifies the warehouse is reachable.
	TestConnection(ctx context.Context) error

	// Close releases the database connection.
	Close() error
}

// QueryResult contains the results of a SQL query execution.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
