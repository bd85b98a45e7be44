// Package db is a reference `.sppn` native plugin (spec.md §6): it exposes
// `query`, `exec`, and `transaction` to scriptpp over three backing
// drivers — SQLite (`mattn/go-sqlite3`) and Postgres, either pooled
// (`jackc/pgx/v5`) or through `database/sql` (`lib/pq`) — behind one small
// backend interface so the exported functions don't care which is live.
package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

// row is one result row, keyed by column name, holding already-converted
// object.Value results.
type row map[string]object.Value

// backend is the minimal surface query/exec/transaction need, satisfied
// independently by the database/sql-backed driver (sqlBackend,
// reused for Postgres-via-lib/pq) and the pgx pool-backed driver.
type backend interface {
	query(ctx context.Context, query string, args []any) ([]row, error)
	exec(ctx context.Context, query string, args []any) (rowsAffected int64, err error)
	begin(ctx context.Context) (txBackend, error)
	close() error
}

// txBackend is a backend scoped to one transaction, plus commit/rollback.
type txBackend interface {
	backend
	commit(ctx context.Context) error
	rollback(ctx context.Context) error
}

// Plugin wraps a live backend and is what New's returned NativePlugin
// installs into the Module it populates.
type Plugin struct {
	logger *zap.Logger
	be     backend
}

// New connects to dsn and returns a program.NativePlugin ready to pass to
// program.WithPlugin("db", ...) or Program.RegisterPlugin. dsn selects the
// driver: a `postgres://` URL uses the pooled pgx/v5 driver, a
// `postgres-stdlib://` URL (rewritten to `postgres://` before dialing)
// uses lib/pq through database/sql, and anything else is treated as a
// SQLite file path (mattn/go-sqlite3).
func New(logger *zap.Logger, dsn string) (program.NativePlugin, error) {
	be, err := openBackend(dsn)
	if err != nil {
		return nil, fmt.Errorf("db plugin: %w", err)
	}
	p := &Plugin{logger: logger, be: be}
	return p.load, nil
}

// load is the `.sppn` entry point: `(out *object.Module, in *program.Program) error`.
func (p *Plugin) load(out *object.Module, in *program.Program) error {
	out.Export("query", &object.Function{
		Name: "query",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			sqlText, params, err := queryArgs(args)
			if err != nil {
				return nil, err
			}
			rows, err := p.be.query(context.Background(), sqlText, params)
			if err != nil {
				return nil, fmt.Errorf("db.query: %w", err)
			}
			return rowsToList(rows), nil
		},
	})

	out.Export("exec", &object.Function{
		Name: "exec",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			sqlText, params, err := queryArgs(args)
			if err != nil {
				return nil, err
			}
			n, err := p.be.exec(context.Background(), sqlText, params)
			if err != nil {
				return nil, fmt.Errorf("db.exec: %w", err)
			}
			return object.NewInt64(n), nil
		},
	})

	out.Export("transaction", &object.Function{
		Name: "transaction",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return p.runTransaction(in, args)
		},
	})

	return nil
}

// runTransaction implements `transaction(fn)`: fn receives a transaction
// handle DynamicObject exposing the same query/exec surface, scoped to
// the open transaction; a panic or returned error rolls back, otherwise
// it commits. Go errors bubbling out of fn (e.g. the wrapped native calls
// above) are treated as a rollback signal, not silently swallowed.
func (p *Plugin) runTransaction(in *program.Program, args []object.Value) (object.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("transaction requires a callback function")
	}
	fn, ok := args[0].(*object.Function)
	if !ok {
		return nil, fmt.Errorf("transaction requires a callback function")
	}

	ctx := context.Background()
	tx, err := p.be.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("db.transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.rollback(ctx)
			panic(r)
		}
	}()

	txHandle := txDynamicObject(tx)
	callResult, callErr := in.Evaluator().Call(fn, []object.Value{txHandle})
	if callErr != nil {
		_ = tx.rollback(ctx)
		return nil, callErr
	}
	if err := tx.commit(ctx); err != nil {
		return nil, fmt.Errorf("db.transaction: commit: %w", err)
	}
	return callResult, nil
}

// txDynamicObject exposes a txBackend's query/exec as a DynamicObject's
// callable properties, so script code calls `tx.query(...)`/`tx.exec(...)`
// exactly like the module-level functions.
func txDynamicObject(tx txBackend) *object.DynamicObject {
	obj := object.NewDynamicObject()
	obj.ProtoName = "Transaction"
	obj.Set("query", &object.Function{
		Name: "query",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			sqlText, params, err := queryArgs(args)
			if err != nil {
				return nil, err
			}
			rows, err := tx.query(context.Background(), sqlText, params)
			if err != nil {
				return nil, err
			}
			return rowsToList(rows), nil
		},
	})
	obj.Set("exec", &object.Function{
		Name: "exec",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			sqlText, params, err := queryArgs(args)
			if err != nil {
				return nil, err
			}
			n, err := tx.exec(context.Background(), sqlText, params)
			if err != nil {
				return nil, err
			}
			return object.NewInt64(n), nil
		},
	})
	return obj
}

func queryArgs(args []object.Value) (string, []any, error) {
	if len(args) < 1 {
		return "", nil, fmt.Errorf("expected a SQL string as the first argument")
	}
	sqlStr, ok := args[0].(*object.String)
	if !ok {
		return "", nil, fmt.Errorf("expected a SQL string as the first argument")
	}
	params := make([]any, len(args)-1)
	for i, a := range args[1:] {
		params[i] = valueToGo(a)
	}
	return sqlStr.Value, params, nil
}

func rowsToList(rows []row) *object.List {
	elems := make([]object.Value, len(rows))
	for i, r := range rows {
		obj := object.NewDynamicObject()
		for col, v := range r {
			obj.Set(col, v)
		}
		elems[i] = obj
	}
	return &object.List{Elements: elems}
}
