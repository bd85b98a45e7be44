package db

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

func newMockPlugin(t *testing.T) (*Plugin, sqlmock.Sqlmock, *object.Module, *program.Program) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	p := &Plugin{logger: zap.NewNop(), be: newSQLBackend(conn)}
	prog := program.New(zap.NewNop(), t.TempDir())
	mod := &object.Module{Name: "db", Scope: scope.NewChild(prog.Root, scope.KindModule)}
	require.NoError(t, p.load(mod, prog))
	return p, mock, mod, prog
}

func callNative(t *testing.T, mod *object.Module, name string, args ...object.Value) (object.Value, error) {
	t.Helper()
	v, ok := mod.Get(name)
	require.True(t, ok)
	fn, ok := v.(*object.Function)
	require.True(t, ok)
	return fn.Native(args, nil)
}

func TestDBPlugin_QueryReturnsListOfDynamicObjects(t *testing.T) {
	_, mock, mod, _ := newMockPlugin(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "alice").
		AddRow(int64(2), "bob")
	mock.ExpectQuery("select id, name from users").WillReturnRows(rows)

	result, err := callNative(t, mod, "query", &object.String{Value: "select id, name from users"})
	require.NoError(t, err)

	list, ok := result.(*object.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 2)

	first, ok := list.Elements[0].(*object.DynamicObject)
	require.True(t, ok)
	name, ok := first.Get("name")
	require.True(t, ok)
	assert.Equal(t, "alice", name.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBPlugin_ExecReturnsRowsAffected(t *testing.T) {
	_, mock, mod, _ := newMockPlugin(t)

	mock.ExpectExec("update users set active").WillReturnResult(sqlmock.NewResult(0, 3))

	result, err := callNative(t, mod, "exec", &object.String{Value: "update users set active = true"})
	require.NoError(t, err)

	num, ok := result.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, int64(3), num.AsInt())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBPlugin_QueryBindsParameters(t *testing.T) {
	_, mock, mod, _ := newMockPlugin(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery("select id from users where name = ?").
		WithArgs("carol").
		WillReturnRows(rows)

	result, err := callNative(t, mod, "query",
		&object.String{Value: "select id from users where name = ?"},
		&object.String{Value: "carol"},
	)
	require.NoError(t, err)
	list := result.(*object.List)
	require.Len(t, list.Elements, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBPlugin_TransactionCommitsOnSuccess(t *testing.T) {
	_, mock, mod, prog := newMockPlugin(t)

	mock.ExpectBegin()
	mock.ExpectExec("insert into users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	callback := &object.Function{
		Name: "txBody",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			tx, ok := args[0].(*object.DynamicObject)
			require.True(t, ok)
			v, ok := tx.Get("exec")
			require.True(t, ok)
			execFn := v.(*object.Function)
			return execFn.Native([]object.Value{&object.String{Value: "insert into users(name) values('dan')"}}, nil)
		},
	}

	result, err := callNative(t, mod, "transaction", callback)
	require.NoError(t, err)
	num, ok := result.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, int64(1), num.AsInt())

	require.NoError(t, mock.ExpectationsWereMet())
	_ = prog
}

func TestDBPlugin_TransactionRollsBackOnCallbackError(t *testing.T) {
	_, mock, mod, _ := newMockPlugin(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	callback := &object.Function{
		Name: "txBody",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return nil, assert.AnError
		},
	}

	_, err := callNative(t, mod, "transaction", callback)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
