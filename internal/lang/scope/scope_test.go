package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

func TestScope_DefineAndLookup(t *testing.T) {
	s := New(KindProgram)
	s.Define("x", object.NewInt64(1))
	ref, ok := s.Lookup("x")
	require.True(t, ok)
	v, err := ref.Deref()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(*object.Number).AsInt())
}

func TestScope_LookupSearchesOuterScopes(t *testing.T) {
	outer := New(KindProgram)
	outer.Define("x", object.NewInt64(1))
	inner := NewChild(outer, KindFunction)
	_, ok := inner.Lookup("x")
	assert.True(t, ok)
}

func TestScope_LookupMissingReturnsFalse(t *testing.T) {
	s := New(KindProgram)
	_, ok := s.Lookup("missing")
	assert.False(t, ok)
}

func TestScope_AssignUpdatesOuterBinding(t *testing.T) {
	outer := New(KindProgram)
	outer.Define("x", object.NewInt64(1))
	inner := NewChild(outer, KindFunction)
	ok := inner.Assign("x", object.NewInt64(2))
	require.True(t, ok)
	ref, _ := outer.Lookup("x")
	v, _ := ref.Deref()
	assert.Equal(t, int64(2), v.(*object.Number).AsInt())
}

func TestScope_AssignToUndeclaredFails(t *testing.T) {
	s := New(KindProgram)
	ok := s.Assign("never_declared", object.NewInt64(1))
	assert.False(t, ok)
}

func TestScope_HasKindWalksOutward(t *testing.T) {
	program := New(KindProgram)
	fn := NewChild(program, KindFunction)
	loop := NewChild(fn, KindIteration)
	assert.True(t, loop.HasKind(KindFunction))
	assert.True(t, loop.HasKind(KindIteration))
	assert.True(t, loop.HasKind(KindProgram))
	assert.False(t, loop.HasKind(KindModule))
}

func TestScope_RedefineOverwrites(t *testing.T) {
	s := New(KindProgram)
	s.Define("x", object.NewInt64(1))
	s.Define("x", object.NewInt64(2))
	ref, _ := s.Lookup("x")
	v, _ := ref.Deref()
	assert.Equal(t, int64(2), v.(*object.Number).AsInt())
}

func TestScope_SatisfiesObjectScopeInterface(t *testing.T) {
	var _ object.Scope = New(KindProgram)
}
