package httpsrv

import (
	"io"
	"net/http"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// requestToDynamicObject surfaces an inbound *http.Request as a
// DynamicObject with `method`, `path`, `query`, `headers` (a
// Dictionary), and `body` (read fully — handlers are expected to run
// quickly against small request bodies, not stream them).
func requestToDynamicObject(r *http.Request) (*object.DynamicObject, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	obj := object.NewDynamicObject()
	obj.ProtoName = "Request"
	obj.Set("method", &object.String{Value: r.Method})
	obj.Set("path", &object.String{Value: r.URL.Path})
	obj.Set("body", &object.String{Value: string(bodyBytes)})

	query := object.NewDictionary()
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query.Put(&object.String{Value: k}, &object.String{Value: vs[0]})
		}
	}
	obj.Set("query", query)

	headers := object.NewDictionary()
	for k := range r.Header {
		headers.Put(&object.String{Value: k}, &object.String{Value: r.Header.Get(k)})
	}
	obj.Set("headers", headers)

	return obj, nil
}

// writeResponse translates a handler's return value into an HTTP
// response. A String is written as a 200 text body; a DynamicObject with
// `status`/`body`/`headers` properties controls the response precisely;
// anything else renders via Value.String().
func writeResponse(w http.ResponseWriter, v object.Value) {
	switch val := v.(type) {
	case *object.String:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(val.Value))
	case *object.DynamicObject:
		status := http.StatusOK
		if s, ok := val.Get("status"); ok {
			if n, ok := s.(*object.Number); ok {
				status = int(n.AsInt())
			}
		}
		if h, ok := val.Get("headers"); ok {
			if headers, ok := h.(*object.Dictionary); ok {
				for _, key := range headers.Keys() {
					if ks, ok := key.(*object.String); ok {
						if hv, ok := headers.Get(key); ok {
							w.Header().Set(ks.Value, hv.String())
						}
					}
				}
			}
		}
		w.WriteHeader(status)
		if b, ok := val.Get("body"); ok {
			_, _ = w.Write([]byte(b.String()))
		}
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(v.String()))
	}
}

// responseToDynamicObject surfaces an outbound *http.Response (from
// get/post) as a DynamicObject with `status`, `body`, and `headers`.
func responseToDynamicObject(resp *http.Response) (*object.DynamicObject, error) {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	obj := object.NewDynamicObject()
	obj.ProtoName = "Response"
	obj.Set("status", object.NewInt64(int64(resp.StatusCode)))
	obj.Set("body", &object.String{Value: string(bodyBytes)})

	headers := object.NewDictionary()
	for k := range resp.Header {
		headers.Put(&object.String{Value: k}, &object.String{Value: resp.Header.Get(k)})
	}
	obj.Set("headers", headers)

	return obj, nil
}
