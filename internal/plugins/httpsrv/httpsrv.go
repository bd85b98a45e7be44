// Package httpsrv is the `http` reference `.sppn` plugin (SPEC_FULL.md
// native-plugin reference implementations): `serve(port, handler)` for a
// script-driven HTTP server, `get`/`post` for outbound requests, and
// `connect` for a websocket client. Routing is `go-chi/chi/v5`; the
// websocket transport is `gorilla/websocket`, adapted from
// internal/web/websocket's hub/client pair into a single-connection
// handle a script can `send`/`receive`/`close` directly rather than a
// broadcast hub, since scripts drive one socket at a time.
package httpsrv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

type Plugin struct {
	logger *zap.Logger
	client *http.Client
}

func New(logger *zap.Logger) program.NativePlugin {
	p := &Plugin{logger: logger, client: &http.Client{Timeout: 30 * time.Second}}
	return p.load
}

func (p *Plugin) load(out *object.Module, in *program.Program) error {
	out.Export("serve", &object.Function{
		Name: "serve",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return p.serve(in, args)
		},
	})
	out.Export("get", &object.Function{
		Name: "get",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return p.request(http.MethodGet, args)
		},
	})
	out.Export("post", &object.Function{
		Name: "post",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return p.request(http.MethodPost, args)
		},
	})
	out.Export("connect", &object.Function{
		Name: "connect",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return connectWebsocket(args)
		},
	})
	return nil
}

// serve starts a chi router on port, dispatching every request to handler
// (invoked as handler(request)) and translating its returned value into
// the HTTP response. It returns once the listener is up (or has failed
// within 100ms) with an HTTPServer handle; the server runs until that
// handle's close() shuts it down or the process exits.
func (p *Plugin) serve(in *program.Program, args []object.Value) (object.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("serve requires a port and a handler function")
	}
	portNum, ok := args[0].(*object.Number)
	if !ok {
		return nil, fmt.Errorf("serve's first argument must be a port number")
	}
	handler, ok := args[1].(*object.Function)
	if !ok {
		return nil, fmt.Errorf("serve's second argument must be a handler function")
	}

	router := chi.NewRouter()
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		reqObj, err := requestToDynamicObject(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, err := in.Evaluator().Call(handler, []object.Value{reqObj})
		if err != nil {
			p.logger.Error("http handler failed", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeResponse(w, result)
	})

	addr := ":" + strconv.FormatInt(portNum.AsInt(), 10)
	srv := &http.Server{Addr: addr, Handler: router}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return nil, fmt.Errorf("serve: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
		p.logger.Info("http server started", zap.String("addr", addr))
	}

	handle := object.NewDynamicObject()
	handle.ProtoName = "HTTPServer"
	handle.Set("close", &object.Function{
		Name: "close",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return object.NullValue, srv.Shutdown(ctx)
		},
	})
	return handle, nil
}

func (p *Plugin) request(method string, args []object.Value) (object.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires a url argument", method)
	}
	url, ok := args[0].(*object.String)
	if !ok {
		return nil, fmt.Errorf("%s requires a string url", method)
	}

	var body io.Reader
	var opts *object.Dictionary
	if len(args) >= 2 {
		opts, ok = args[1].(*object.Dictionary)
		if !ok {
			return nil, fmt.Errorf("%s's opts argument must be a dictionary", method)
		}
		if b, ok := opts.Get(&object.String{Value: "body"}); ok {
			if s, ok := b.(*object.String); ok {
				body = strings.NewReader(s.Value)
			}
		}
	}

	req, err := http.NewRequest(method, url.Value, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if opts != nil {
		if h, ok := opts.Get(&object.String{Value: "headers"}); ok {
			if headers, ok := h.(*object.Dictionary); ok {
				for _, key := range headers.Keys() {
					if ks, ok := key.(*object.String); ok {
						if v, ok := headers.Get(key); ok {
							req.Header.Set(ks.Value, v.String())
						}
					}
				}
			}
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()
	return responseToDynamicObject(resp)
}
