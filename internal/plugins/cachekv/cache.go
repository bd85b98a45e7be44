// Package cachekv is the `cache` reference `.sppn` plugin (SPEC_FULL.md
// native-plugin reference implementations): `get`/`set`/`has`/`delete`
// over a `redis/go-redis/v9` client, with values marshalled through
// `segmentio/encoding/json` rather than scriptpp's own String() forms so
// a Number, List, or Dictionary round-trips structurally instead of as
// prose.
package cachekv

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

type Plugin struct {
	logger *zap.Logger
	client *redis.Client
}

// New dials addr (a `redis://` URL, parsed by go-redis itself) and pings
// it once so a misconfigured plugin fails at registration rather than on
// the first script-level `get`/`set`.
func New(logger *zap.Logger, addr string) (program.NativePlugin, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("cache plugin: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache plugin: %w", err)
	}
	p := &Plugin{logger: logger, client: client}
	return p.load, nil
}

func (p *Plugin) load(out *object.Module, in *program.Program) error {
	out.Export("get", &object.Function{
		Name: "get",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			key, err := stringArg(args, 0, "get")
			if err != nil {
				return nil, err
			}
			raw, err := p.client.Get(context.Background(), key).Result()
			if err == redis.Nil {
				return object.NullValue, nil
			}
			if err != nil {
				return nil, fmt.Errorf("cache.get: %w", err)
			}
			var decoded any
			if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
				return nil, fmt.Errorf("cache.get: %w", err)
			}
			return jsonToValue(decoded), nil
		},
	})

	out.Export("set", &object.Function{
		Name: "set",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			key, err := stringArg(args, 0, "set")
			if err != nil {
				return nil, err
			}
			if len(args) < 2 {
				return nil, fmt.Errorf("set requires a key and a value")
			}
			encoded, err := valueToJSON(args[1])
			if err != nil {
				return nil, fmt.Errorf("cache.set: %w", err)
			}
			payload, err := json.Marshal(encoded)
			if err != nil {
				return nil, fmt.Errorf("cache.set: %w", err)
			}
			var ttl time.Duration
			if len(args) >= 3 {
				seconds, ok := args[2].(*object.Number)
				if !ok {
					return nil, fmt.Errorf("set's ttlSeconds argument must be a number")
				}
				ttl = time.Duration(seconds.AsFloat() * float64(time.Second))
			}
			if err := p.client.Set(context.Background(), key, payload, ttl).Err(); err != nil {
				return nil, fmt.Errorf("cache.set: %w", err)
			}
			return object.NullValue, nil
		},
	})

	out.Export("has", &object.Function{
		Name: "has",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			key, err := stringArg(args, 0, "has")
			if err != nil {
				return nil, err
			}
			n, err := p.client.Exists(context.Background(), key).Result()
			if err != nil {
				return nil, fmt.Errorf("cache.has: %w", err)
			}
			return object.BoolValue(n > 0), nil
		},
	})

	out.Export("delete", &object.Function{
		Name: "delete",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			key, err := stringArg(args, 0, "delete")
			if err != nil {
				return nil, err
			}
			n, err := p.client.Del(context.Background(), key).Result()
			if err != nil {
				return nil, fmt.Errorf("cache.delete: %w", err)
			}
			return object.BoolValue(n > 0), nil
		},
	})

	return nil
}

func stringArg(args []object.Value, i int, fnName string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s requires a key argument", fnName)
	}
	s, ok := args[i].(*object.String)
	if !ok {
		return "", fmt.Errorf("%s requires a string key", fnName)
	}
	return s.Value, nil
}
