package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

func newTestCrypto(t *testing.T) *object.Module {
	t.Helper()
	prog := program.New(zap.NewNop(), t.TempDir())
	mod := &object.Module{Name: "crypto", Scope: scope.NewChild(prog.Root, scope.KindModule)}
	require.NoError(t, New(zap.NewNop())(mod, prog))
	return mod
}

func callCryptoFn(t *testing.T, mod *object.Module, name string, args ...object.Value) (object.Value, error) {
	t.Helper()
	v, ok := mod.Get(name)
	require.True(t, ok)
	fn := v.(*object.Function)
	return fn.Native(args, nil)
}

func TestCrypto_HashThenVerifySucceedsForCorrectPassword(t *testing.T) {
	mod := newTestCrypto(t)

	hashed, err := callCryptoFn(t, mod, "hash", &object.String{Value: "s3cret"})
	require.NoError(t, err)

	ok, err := callCryptoFn(t, mod, "verify", &object.String{Value: "s3cret"}, hashed)
	require.NoError(t, err)
	assert.True(t, ok.(*object.Boolean).Value)
}

func TestCrypto_VerifyFailsForWrongPassword(t *testing.T) {
	mod := newTestCrypto(t)

	hashed, err := callCryptoFn(t, mod, "hash", &object.String{Value: "s3cret"})
	require.NoError(t, err)

	ok, err := callCryptoFn(t, mod, "verify", &object.String{Value: "wrong"}, hashed)
	require.NoError(t, err)
	assert.False(t, ok.(*object.Boolean).Value)
}

func TestCrypto_SignThenVerifyJWTRoundTripsClaims(t *testing.T) {
	mod := newTestCrypto(t)

	claims := object.NewDictionary()
	claims.Put(&object.String{Value: "sub"}, &object.String{Value: "user-1"})
	claims.Put(&object.String{Value: "admin"}, object.BoolValue(true))

	token, err := callCryptoFn(t, mod, "signJWT", claims, &object.String{Value: "my-secret"})
	require.NoError(t, err)

	decoded, err := callCryptoFn(t, mod, "verifyJWT", token, &object.String{Value: "my-secret"})
	require.NoError(t, err)

	dict, ok := decoded.(*object.Dictionary)
	require.True(t, ok)
	sub, ok := dict.Get(&object.String{Value: "sub"})
	require.True(t, ok)
	assert.Equal(t, "user-1", sub.String())
}

func TestCrypto_VerifyJWTFailsWithWrongSecret(t *testing.T) {
	mod := newTestCrypto(t)

	claims := object.NewDictionary()
	claims.Put(&object.String{Value: "sub"}, &object.String{Value: "user-1"})

	token, err := callCryptoFn(t, mod, "signJWT", claims, &object.String{Value: "right-secret"})
	require.NoError(t, err)

	decoded, err := callCryptoFn(t, mod, "verifyJWT", token, &object.String{Value: "wrong-secret"})
	require.NoError(t, err)
	_, isNull := decoded.(*object.Null)
	assert.True(t, isNull)
}
