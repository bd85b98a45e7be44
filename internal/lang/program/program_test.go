package program

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

func newTestProgram(t *testing.T, out *strings.Builder) (*Program, string) {
	t.Helper()
	dir := t.TempDir()
	p := New(zap.NewNop(), dir, WithStdout(out))
	return p, dir
}

func TestProgram_PrintWritesToStdout(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	_, err := p.EvalText(`print("hello", 1 + 2);`)
	require.NoError(t, err)
	assert.Equal(t, "hello 3\n", out.String())
}

func TestProgram_CwdReflectsStartupDirectory(t *testing.T) {
	var out strings.Builder
	p, dir := newTestProgram(t, &out)
	_, err := p.EvalText(`print(cwd());`)
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out.String())
}

func TestProgram_CwdIgnoresProcessWorkingDirectoryChanges(t *testing.T) {
	var out strings.Builder
	p, dir := newTestProgram(t, &out)

	elsewhere := t.TempDir()
	origWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(elsewhere))
	defer os.Chdir(origWd)

	_, err = p.EvalText(`print(cwd());`)
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out.String())
}

func TestProgram_ImportLoadsAndMemoizesSourceModule(t *testing.T) {
	var out strings.Builder
	p, dir := newTestProgram(t, &out)

	source := "let loadCount = 1;\nfn greet(name) -> \"hi \" + name\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greeter.spp"), []byte(source), 0o644))

	mod1, err := p.Import("greeter")
	require.NoError(t, err)
	mod2, err := p.Import("greeter")
	require.NoError(t, err)
	assert.Same(t, mod1, mod2)

	greet, ok := mod1.Get("greet")
	require.True(t, ok)
	fn, ok := greet.(*object.Function)
	require.True(t, ok)
	assert.Equal(t, "greet", fn.Name)
}

func TestProgram_ModuleCacheDoesNotEvictBeyondConfiguredCapacity(t *testing.T) {
	var out strings.Builder
	dir := t.TempDir()
	p := New(zap.NewNop(), dir, WithStdout(&out), WithCacheCapacity(2))

	var first *object.Module
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "m"+string(rune('a'+i))+".spp")
		require.NoError(t, os.WriteFile(name, []byte("let v = 1;\n"), 0o644))
		mod, err := p.Import(name)
		require.NoError(t, err)
		if i == 0 {
			first = mod
		}
	}

	again, err := p.Import(filepath.Join(dir, "ma.spp"))
	require.NoError(t, err)
	assert.Same(t, first, again, "a module imported before the configured capacity was exceeded must stay memoized, not be evicted")
}

func TestProgram_ImportUnknownModuleFails(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	_, err := p.Import("does-not-exist")
	require.Error(t, err)
}

func TestProgram_ImportDispatchesToRegisteredNativePlugin(t *testing.T) {
	var out strings.Builder
	dir := t.TempDir()
	p := New(zap.NewNop(), dir, WithStdout(&out), WithPlugin("greet", func(mod *object.Module, in *Program) error {
		mod.Export("hello", &object.String{Value: "plugin hello"})
		return nil
	}))

	mod, err := p.Import("greet")
	require.NoError(t, err)
	v, ok := mod.Get("hello")
	require.True(t, ok)
	assert.Equal(t, "plugin hello", v.String())
}

func TestProgram_EvalTextReturnsLastStatementValue(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	result, err := p.EvalText(`let x = 1; let y = 2; x + y`)
	require.NoError(t, err)
	num, ok := result.(*object.Number)
	require.True(t, ok)
	assert.Equal(t, int64(3), num.AsInt())
}

func TestProgram_EvalBuiltinAccessibleFromScript(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	_, err := p.EvalText(`print(eval("2 + 2"));`)
	require.NoError(t, err)
	assert.Equal(t, "4\n", out.String())
}

func TestProgram_DictAndThreadBuiltinsAreBound(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	_, err := p.EvalText(`
		let d = Dict();
		d.put("k", 1);
		print(d.get("k"));
		let th = Thread(fn() -> 42);
		th.start();
		print(th.join());
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n42\n", out.String())
}

func TestProgram_ListBuiltinConstructsList(t *testing.T) {
	var out strings.Builder
	p, _ := newTestProgram(t, &out)
	_, err := p.EvalText(`print(List(1, 2, 3).join(","));`)
	require.NoError(t, err)
	assert.Equal(t, "1,2,3\n", out.String())
}
