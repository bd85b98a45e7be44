package db

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"           // registers the "postgres" driver
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver
)

// sqlBackend adapts *sql.DB (or *sql.Tx, behind the sqlExecutor subset
// both satisfy) to the backend/txBackend interfaces. It is the driver
// used for SQLite and, via lib/pq, the non-pooled Postgres path —
// `database/sql` already gives both a connection pool, so "pooled vs.
// database/sql" distinguishes pgx's pool from this package's reliance on
// database/sql's own pool, not presence/absence of pooling.
type sqlExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlBackend struct {
	db  *sql.DB
	tx  *sql.Tx
	exe sqlExecutor
}

func openSQLBackend(driverName, dsn string) (*sqlBackend, error) {
	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return newSQLBackend(conn), nil
}

// newSQLBackend wraps an already-open *sql.DB, letting tests supply a
// sqlmock-backed connection without going through openSQLBackend's
// driver-name dialing.
func newSQLBackend(conn *sql.DB) *sqlBackend {
	return &sqlBackend{db: conn, exe: conn}
}

func (b *sqlBackend) query(ctx context.Context, query string, args []any) ([]row, error) {
	rows, err := b.exe.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []row
	for rows.Next() {
		scanTargets := make([]any, len(cols))
		scanValues := make([]any, len(cols))
		for i := range scanValues {
			scanTargets[i] = &scanValues[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}
		r := make(row, len(cols))
		for i, col := range cols {
			r[col] = goToValue(scanValues[i])
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (b *sqlBackend) exec(ctx context.Context, query string, args []any) (int64, error) {
	result, err := b.exe.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (b *sqlBackend) begin(ctx context.Context) (txBackend, error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlBackend{db: b.db, tx: tx, exe: tx}, nil
}

func (b *sqlBackend) commit(ctx context.Context) error {
	return b.tx.Commit()
}

func (b *sqlBackend) rollback(ctx context.Context) error {
	return b.tx.Rollback()
}

func (b *sqlBackend) close() error {
	if b.tx != nil {
		return nil
	}
	return b.db.Close()
}
