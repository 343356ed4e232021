// Package repositories implements the domain repository contracts on
// PostgreSQL via database/sql.
package repositories

import (
	"context"
	"database/sql"
)

// queryExecutor abstracts *sql.DB and *sql.Tx so repository methods work
// inside and outside transactions.
type queryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}
