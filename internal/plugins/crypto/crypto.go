// Package crypto is the `crypto` reference `.sppn` plugin (SPEC_FULL.md
// native-plugin reference implementations): password hashing via
// `golang.org/x/crypto/bcrypt` and JWT signing/verification via
// `golang-jwt/jwt/v5`.
package crypto

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

type Plugin struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) program.NativePlugin {
	p := &Plugin{logger: logger}
	return p.load
}

func (p *Plugin) load(out *object.Module, in *program.Program) error {
	out.Export("hash", &object.Function{
		Name: "hash",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			password, err := stringArg(args, 0, "hash")
			if err != nil {
				return nil, err
			}
			digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("crypto.hash: %w", err)
			}
			return &object.String{Value: string(digest)}, nil
		},
	})

	out.Export("verify", &object.Function{
		Name: "verify",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			password, err := stringArg(args, 0, "verify")
			if err != nil {
				return nil, err
			}
			digest, err := stringArg(args, 1, "verify")
			if err != nil {
				return nil, err
			}
			err = bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
			return object.BoolValue(err == nil), nil
		},
	})

	out.Export("signJWT", &object.Function{
		Name: "signJWT",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if len(args) < 2 {
				return nil, fmt.Errorf("signJWT requires a claims dictionary and a secret")
			}
			claims, ok := args[0].(*object.Dictionary)
			if !ok {
				return nil, fmt.Errorf("signJWT's first argument must be a dictionary of claims")
			}
			secret, err := stringArg(args, 1, "signJWT")
			if err != nil {
				return nil, err
			}
			mapClaims := jwt.MapClaims{}
			for _, key := range claims.Keys() {
				ks, ok := key.(*object.String)
				if !ok {
					continue
				}
				v, _ := claims.Get(key)
				mapClaims[ks.Value] = claimValueToGo(v)
			}
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return nil, fmt.Errorf("crypto.signJWT: %w", err)
			}
			return &object.String{Value: signed}, nil
		},
	})

	out.Export("verifyJWT", &object.Function{
		Name: "verifyJWT",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			tokenString, err := stringArg(args, 0, "verifyJWT")
			if err != nil {
				return nil, err
			}
			secret, err := stringArg(args, 1, "verifyJWT")
			if err != nil {
				return nil, err
			}
			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return object.NullValue, nil
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return object.NullValue, nil
			}
			result := object.NewDictionary()
			for k, v := range claims {
				result.Put(&object.String{Value: k}, goToClaimValue(v))
			}
			return result, nil
		},
	})

	return nil
}

func stringArg(args []object.Value, i int, fnName string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s requires more arguments", fnName)
	}
	s, ok := args[i].(*object.String)
	if !ok {
		return "", fmt.Errorf("%s requires a string argument", fnName)
	}
	return s.Value, nil
}

func claimValueToGo(v object.Value) any {
	switch val := v.(type) {
	case *object.Null:
		return nil
	case *object.Boolean:
		return val.Value
	case *object.Number:
		if val.NumKind == object.Float32 || val.NumKind == object.Float64 {
			return val.AsFloat()
		}
		return val.AsInt()
	case *object.String:
		return val.Value
	default:
		return val.String()
	}
}

func goToClaimValue(v any) object.Value {
	switch val := v.(type) {
	case nil:
		return object.NullValue
	case bool:
		return object.BoolValue(val)
	case float64:
		return object.NewFloat64(val)
	case string:
		return &object.String{Value: val}
	default:
		return &object.String{Value: fmt.Sprintf("%v", val)}
	}
}
