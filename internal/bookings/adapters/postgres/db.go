package postgres

import (
	"context"
	"database/sql"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Tx interface {
	Execer
	Commit() error
	Rollback() error
}

type DB interface {
	Execer
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
	BeginTx(ctx context.Context) (Tx, error)
}
