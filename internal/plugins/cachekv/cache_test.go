package cachekv

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

func newTestCache(t *testing.T) *object.Module {
	t.Helper()
	srv := miniredis.RunT(t)

	loader, err := New(zap.NewNop(), "redis://"+srv.Addr())
	require.NoError(t, err)

	prog := program.New(zap.NewNop(), t.TempDir())
	mod := &object.Module{Name: "cache", Scope: scope.NewChild(prog.Root, scope.KindModule)}
	require.NoError(t, loader(mod, prog))
	return mod
}

func callCacheFn(t *testing.T, mod *object.Module, name string, args ...object.Value) (object.Value, error) {
	t.Helper()
	v, ok := mod.Get(name)
	require.True(t, ok)
	fn := v.(*object.Function)
	return fn.Native(args, nil)
}

func TestCache_SetThenGetRoundTripsScalar(t *testing.T) {
	mod := newTestCache(t)

	_, err := callCacheFn(t, mod, "set", &object.String{Value: "greeting"}, &object.String{Value: "hello"})
	require.NoError(t, err)

	result, err := callCacheFn(t, mod, "get", &object.String{Value: "greeting"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.String())
}

func TestCache_GetMissingKeyReturnsNull(t *testing.T) {
	mod := newTestCache(t)

	result, err := callCacheFn(t, mod, "get", &object.String{Value: "absent"})
	require.NoError(t, err)
	_, isNull := result.(*object.Null)
	assert.True(t, isNull)
}

func TestCache_SetRoundTripsListAndNumber(t *testing.T) {
	mod := newTestCache(t)

	list := &object.List{Elements: []object.Value{object.NewInt64(1), object.NewInt64(2), object.NewInt64(3)}}
	_, err := callCacheFn(t, mod, "set", &object.String{Value: "nums"}, list)
	require.NoError(t, err)

	result, err := callCacheFn(t, mod, "get", &object.String{Value: "nums"})
	require.NoError(t, err)

	got, ok := result.(*object.List)
	require.True(t, ok)
	require.Len(t, got.Elements, 3)
	second := got.Elements[1].(*object.Number)
	assert.Equal(t, int64(2), second.AsInt())
}

func TestCache_HasReflectsPresence(t *testing.T) {
	mod := newTestCache(t)

	has, err := callCacheFn(t, mod, "has", &object.String{Value: "k"})
	require.NoError(t, err)
	assert.False(t, has.(*object.Boolean).Value)

	_, err = callCacheFn(t, mod, "set", &object.String{Value: "k"}, &object.String{Value: "v"})
	require.NoError(t, err)

	has, err = callCacheFn(t, mod, "has", &object.String{Value: "k"})
	require.NoError(t, err)
	assert.True(t, has.(*object.Boolean).Value)
}

func TestCache_DeleteRemovesKeyAndReportsWhetherItExisted(t *testing.T) {
	mod := newTestCache(t)

	_, err := callCacheFn(t, mod, "set", &object.String{Value: "k"}, &object.String{Value: "v"})
	require.NoError(t, err)

	deleted, err := callCacheFn(t, mod, "delete", &object.String{Value: "k"})
	require.NoError(t, err)
	assert.True(t, deleted.(*object.Boolean).Value)

	deletedAgain, err := callCacheFn(t, mod, "delete", &object.String{Value: "k"})
	require.NoError(t, err)
	assert.False(t, deletedAgain.(*object.Boolean).Value)
}

func TestCache_SetWithTTLExpiresKey(t *testing.T) {
	srv := miniredis.RunT(t)
	loader, err := New(zap.NewNop(), "redis://"+srv.Addr())
	require.NoError(t, err)

	prog := program.New(zap.NewNop(), t.TempDir())
	mod := &object.Module{Name: "cache", Scope: scope.NewChild(prog.Root, scope.KindModule)}
	require.NoError(t, loader(mod, prog))

	_, err = callCacheFn(t, mod, "set", &object.String{Value: "k"}, &object.String{Value: "v"}, object.NewInt64(1))
	require.NoError(t, err)

	srv.FastForward(2 * time.Second)

	result, err := callCacheFn(t, mod, "get", &object.String{Value: "k"})
	require.NoError(t, err)
	_, isNull := result.(*object.Null)
	assert.True(t, isNull)
}
