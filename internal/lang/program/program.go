// Package program implements scriptpp's Program: the root (kind Program)
// scope that owns the module cache, dispatches `.spp` source imports versus
// `.sppn` native-plugin imports, and exposes the built-ins user code sees at
// the outermost scope (spec.md §4.6).
package program

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/lang/eval"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// NativePlugin is the `.sppn` loader contract (spec.md §6): given a fresh
// Module slot and the Program, populate the slot's bindings and return.
// The core loader never inspects what a plugin does with `in`.
type NativePlugin func(out *object.Module, in *Program) error

// Program is the root of a single interpreter run: the kind-Program scope,
// the module cache, and the registry of native plugins available to
// `.sppn` imports. Not safe for concurrent Import/Eval calls from more than
// one goroutine without the cacheMu it already takes internally — spec.md
// §5 leaves concurrent imports on one Program undefined unless callers use
// disjoint scopes, but `Thread.start()` makes calling back into the same
// Program from another goroutine trivially reachable, so the cache itself
// is guarded defensively even though the rest of evaluation is not.
//
// cache is a plain unbounded map, not a bounded LRU: spec.md §4.6/§8
// require every import of a given path to be "memoized by absolute path
// ... for the lifetime of the Program" and to return the identical Module
// value on every subsequent call. A bounded cache could evict a module
// once the program imports more than its capacity's worth of distinct
// paths, silently re-running the loader and breaking that reference-
// identity guarantee. EvalText's ad hoc statement evaluation (the actual
// source of transient, throwaway evaluations in a REPL or `--watch` loop)
// never touches this map at all, so there is no churn here for a bound to
// absorb — only genuine `.spp`/`.sppn` imports land in cache, and those are
// exactly what the spec requires to live for the Program's lifetime.
type Program struct {
	Root   *scope.Scope
	logger *zap.Logger
	ev     *eval.Evaluator

	startupDir string
	stdout     io.Writer

	cacheMu sync.Mutex
	cache   map[string]*object.Module

	pluginsMu sync.RWMutex
	plugins   map[string]NativePlugin
}

// Option configures a Program at construction time.
type Option func(*Program)

// WithCacheCapacity is retained for wiring compatibility with callers that
// pre-size the module cache (cmd/scriptpp reads a configured capacity from
// scriptpp.yml); since the cache is unbounded, n only sets the initial map
// capacity hint and never evicts.
func WithCacheCapacity(n int) Option {
	return func(p *Program) {
		if n < 0 {
			n = 0
		}
		p.cache = make(map[string]*object.Module, n)
	}
}

// WithPlugin pre-registers a native plugin under name, matching a `.sppn`
// import whose resolved base filename (minus extension) equals name.
func WithPlugin(name string, plugin NativePlugin) Option {
	return func(p *Program) { p.plugins[name] = plugin }
}

// WithStdout overrides print's destination, default os.Stdout. Tests and
// the LSP server redirect this to capture or suppress script output.
func WithStdout(w io.Writer) Option {
	return func(p *Program) { p.stdout = w }
}

// New constructs a Program rooted at startupDir, the directory `cwd()` and
// relative imports resolve against for the life of this Program (spec.md
// §4.6 "Environment" — captured once, not re-read from the OS).
func New(logger *zap.Logger, startupDir string, opts ...Option) *Program {
	abs, err := filepath.Abs(startupDir)
	if err != nil {
		abs = startupDir
	}

	p := &Program{
		Root:       scope.New(scope.KindProgram),
		logger:     logger,
		ev:         eval.New(),
		startupDir: abs,
		stdout:     os.Stdout,
		plugins:    make(map[string]NativePlugin),
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.cache == nil {
		p.cache = make(map[string]*object.Module)
	}

	p.bindBuiltins()
	return p
}

// RegisterPlugin adds or replaces a native plugin after construction —
// internal/plugins/* call this from cmd/scriptpp's wiring before the first
// Import.
func (p *Program) RegisterPlugin(name string, plugin NativePlugin) {
	p.pluginsMu.Lock()
	defer p.pluginsMu.Unlock()
	p.plugins[name] = plugin
}

func (p *Program) lookupPlugin(name string) (NativePlugin, bool) {
	p.pluginsMu.RLock()
	defer p.pluginsMu.RUnlock()
	plugin, ok := p.plugins[name]
	return plugin, ok
}

// Evaluator exposes the Program's Evaluator so callers (the REPL, the
// `run` subcommand) can evaluate ad hoc statements against the Program's
// Root without going through a named import.
func (p *Program) Evaluator() *eval.Evaluator { return p.ev }

// StartupDir returns the directory captured at construction, the value
// `cwd()` reports.
func (p *Program) StartupDir() string { return p.startupDir }

// ImportedSourcePaths returns the `.spp` file paths this Program has
// loaded via Import so far (native-plugin imports are excluded, since
// they have no source file on disk to watch). Used by `scriptpp run
// --watch` to discover which files a re-run should track beyond the
// entrypoint itself.
func (p *Program) ImportedSourcePaths() []string {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()

	paths := make([]string, 0, len(p.cache))
	for key := range p.cache {
		if strings.HasPrefix(key, "plugin:") {
			continue
		}
		candidate := key + ".spp"
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		paths = append(paths, candidate)
	}
	return paths
}
