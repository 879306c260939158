package postgres

import (
	"context"
	"database/sql"
)

// querier is the query surface shared by *sql.DB and *sql.Tx. Repositories are
// written against it so the same code serves direct calls and calls made
// inside a unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
