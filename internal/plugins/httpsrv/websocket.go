package httpsrv

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

const wsWriteWait = 10 * time.Second

// connectWebsocket dials url and returns a DynamicObject handle exposing
// `send(message)`, `receive()` (blocks for the next text frame), and
// `close()` — one connection per call, unlike internal/web/websocket's
// Hub which fans a server-side connection out to many subscribers; a
// script driving `connect` owns exactly one socket at a time.
func connectWebsocket(args []object.Value) (object.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("connect requires a url argument")
	}
	url, ok := args[0].(*object.String)
	if !ok {
		return nil, fmt.Errorf("connect requires a string url")
	}

	conn, _, err := websocket.DefaultDialer.Dial(url.Value, nil)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	var closed atomic.Bool

	handle := object.NewDynamicObject()
	handle.ProtoName = "WebSocket"

	handle.Set("send", &object.Function{
		Name: "send",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if closed.Load() {
				return nil, fmt.Errorf("send on closed websocket")
			}
			if len(args) < 1 {
				return nil, fmt.Errorf("send requires a message argument")
			}
			msg, ok := args[0].(*object.String)
			if !ok {
				return nil, fmt.Errorf("send requires a string message")
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Value)); err != nil {
				return nil, fmt.Errorf("send: %w", err)
			}
			return object.NullValue, nil
		},
	})

	handle.Set("receive", &object.Function{
		Name: "receive",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if closed.Load() {
				return nil, fmt.Errorf("receive on closed websocket")
			}
			_, data, err := conn.ReadMessage()
			if err != nil {
				return nil, fmt.Errorf("receive: %w", err)
			}
			return &object.String{Value: string(data)}, nil
		},
	})

	handle.Set("close", &object.Function{
		Name: "close",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if closed.CompareAndSwap(false, true) {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return object.NullValue, conn.Close()
			}
			return object.NullValue, nil
		},
	})

	return handle, nil
}
