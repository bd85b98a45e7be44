package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxBackend is the pooled Postgres driver (spec's "pooled" alternative to
// sqlBackend's database/sql path). pool is non-nil for the top-level
// connection; tx is non-nil once begin has been called.
type pgxBackend struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

// pgxQueryer is the subset of pgxpool.Pool and pgx.Tx this backend needs.
type pgxQueryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func openPgxBackend(ctx context.Context, dsn string) (*pgxBackend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &pgxBackend{pool: pool}, nil
}

func (b *pgxBackend) queryer() pgxQueryer {
	if b.tx != nil {
		return b.tx
	}
	return b.pool
}

func (b *pgxBackend) query(ctx context.Context, query string, args []any) ([]row, error) {
	rows, err := b.queryer().Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		r := make(row, len(fields))
		for i, f := range fields {
			if i < len(values) {
				r[f.Name] = goToValue(values[i])
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (b *pgxBackend) exec(ctx context.Context, query string, args []any) (int64, error) {
	tag, err := b.queryer().Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (b *pgxBackend) begin(ctx context.Context) (txBackend, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgxBackend{pool: b.pool, tx: tx}, nil
}

func (b *pgxBackend) commit(ctx context.Context) error {
	return b.tx.Commit(ctx)
}

func (b *pgxBackend) rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}

func (b *pgxBackend) close() error {
	if b.tx == nil {
		b.pool.Close()
	}
	return nil
}
