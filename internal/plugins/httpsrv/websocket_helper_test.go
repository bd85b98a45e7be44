package httpsrv

import (
	"net"
	"net/http"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// startEchoWebsocketServer runs a bare net/http server (not this
// package's own `serve`, which never upgrades a connection) that echoes
// every text frame it receives on /ws, for testing `connect`.
func startEchoWebsocketServer(t *testing.T) (addr string, stop func()) {
	t.Helper()
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: mux}
	go srv.Serve(listener)

	return listener.Addr().String(), func() {
		_ = srv.Close()
	}
}
