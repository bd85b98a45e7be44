package httpsrv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

func newTestHTTP(t *testing.T) (*object.Module, *program.Program) {
	t.Helper()
	prog := program.New(zap.NewNop(), t.TempDir())
	mod := &object.Module{Name: "http", Scope: scope.NewChild(prog.Root, scope.KindModule)}
	require.NoError(t, New(zap.NewNop())(mod, prog))
	return mod, prog
}

func callHTTPFn(t *testing.T, mod *object.Module, name string, args ...object.Value) (object.Value, error) {
	t.Helper()
	v, ok := mod.Get(name)
	require.True(t, ok)
	fn := v.(*object.Function)
	return fn.Native(args, nil)
}

func TestHTTP_ServeAndGetRoundTrip(t *testing.T) {
	mod, prog := newTestHTTP(t)

	echoHandler := &object.Function{
		Name: "echo",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			req := args[0].(*object.DynamicObject)
			path, _ := req.Get("path")
			return &object.String{Value: "got " + path.String()}, nil
		},
	}

	result, err := callHTTPFn(t, mod, "serve", object.NewInt64(18099), echoHandler)
	require.NoError(t, err)
	handle := result.(*object.DynamicObject)
	defer func() {
		closeFn, _ := handle.Get("close")
		_, _ = closeFn.(*object.Function).Native(nil, nil)
	}()

	resp, err := callHTTPFn(t, mod, "get", &object.String{Value: "http://127.0.0.1:18099/widgets"})
	require.NoError(t, err)

	respObj := resp.(*object.DynamicObject)
	status, _ := respObj.Get("status")
	assert.Equal(t, int64(200), status.(*object.Number).AsInt())
	body, _ := respObj.Get("body")
	assert.Equal(t, "got /widgets", body.String())

	_ = prog
}

func TestHTTP_ServeReturningDynamicObjectSetsStatus(t *testing.T) {
	mod, _ := newTestHTTP(t)

	notFoundHandler := &object.Function{
		Name: "notFound",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			resp := object.NewDynamicObject()
			resp.Set("status", object.NewInt64(404))
			resp.Set("body", &object.String{Value: "nope"})
			return resp, nil
		},
	}

	result, err := callHTTPFn(t, mod, "serve", object.NewInt64(18100), notFoundHandler)
	require.NoError(t, err)
	handle := result.(*object.DynamicObject)
	defer func() {
		closeFn, _ := handle.Get("close")
		_, _ = closeFn.(*object.Function).Native(nil, nil)
	}()

	resp, err := callHTTPFn(t, mod, "get", &object.String{Value: "http://127.0.0.1:18100/anything"})
	require.NoError(t, err)
	respObj := resp.(*object.DynamicObject)
	status, _ := respObj.Get("status")
	assert.Equal(t, int64(404), status.(*object.Number).AsInt())
}

func TestHTTP_ConnectSendsAndReceives(t *testing.T) {
	mod, _ := newTestHTTP(t)

	// A minimal raw net/http server is used here instead of the plugin's
	// own `serve`, since `serve` only ever calls the script handler for
	// plain HTTP requests, not a websocket upgrade.
	addr, stop := startEchoWebsocketServer(t)
	defer stop()

	result, err := callHTTPFn(t, mod, "connect", &object.String{Value: "ws://" + addr + "/ws"})
	require.NoError(t, err)
	handle := result.(*object.DynamicObject)

	sendFn := handle.Properties["send"].(*object.Function)
	_, err = sendFn.Native([]object.Value{&object.String{Value: "hello"}}, nil)
	require.NoError(t, err)

	receiveFn := handle.Properties["receive"].(*object.Function)
	reply, err := receiveFn.Native(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", reply.String())

	closeFn := handle.Properties["close"].(*object.Function)
	_, err = closeFn.Native(nil, nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
}
