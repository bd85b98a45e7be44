package db

import (
	"context"
	"strings"
)

// openBackend dispatches on dsn's scheme: `postgres://` uses the pooled
// pgx/v5 driver, `postgres-stdlib://` (rewritten to `postgres://` before
// dialing) uses lib/pq through database/sql, and anything else is treated
// as a SQLite file path for mattn/go-sqlite3.
func openBackend(dsn string) (backend, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres-stdlib://"):
		return openSQLBackend("postgres", "postgres://"+strings.TrimPrefix(dsn, "postgres-stdlib://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPgxBackend(context.Background(), dsn)
	default:
		return openSQLBackend("sqlite3", dsn)
	}
}
