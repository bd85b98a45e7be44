package program

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/parser"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// Import resolves moduleID (spec.md §4.6's "import protocol"), returning
// the cached Module if this Program has already loaded it, otherwise
// dispatching to the source loader (`.spp`) or the native-plugin loader
// (`.sppn`) and caching the result before returning.
func (p *Program) Import(moduleID string) (*object.Module, error) {
	kind, key, path := p.resolveModuleID(moduleID)

	p.cacheMu.Lock()
	if cached, ok := p.cache[key]; ok {
		p.cacheMu.Unlock()
		return cached, nil
	}
	p.cacheMu.Unlock()

	var mod *object.Module
	var err error
	switch kind {
	case moduleKindNative:
		mod, err = p.loadNative(key, path)
	case moduleKindSource:
		mod, err = p.loadSource(key, path)
	default:
		return nil, scripterrors.NewRuntimeError(
			fmt.Sprintf("cannot import %q: no .spp source file and no registered native plugin found", moduleID),
			lexer.Span{},
		)
	}
	if err != nil {
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[key] = mod
	p.cacheMu.Unlock()
	p.logger.Info("module loaded", zap.String("module", key), zap.String("kind", string(kind)))
	return mod, nil
}

type moduleKind string

const (
	moduleKindSource  moduleKind = "source"
	moduleKindNative  moduleKind = "native"
	moduleKindUnknown moduleKind = "unknown"
)

// resolveModuleID implements step 1 of the import protocol: turn moduleID
// into a cache key and a dispatch decision. A bare name with no path
// separator and no recognized extension is tried against the native
// plugin registry first — plugins are identified by logical name, not a
// filesystem path, since this Program registers them in-process rather
// than dlopen-ing a `.so` (see DESIGN.md for why). Anything else is
// resolved as a `.spp`/`.sppn` path relative to the Program's startup
// directory.
func (p *Program) resolveModuleID(moduleID string) (kind moduleKind, key string, path string) {
	ext := filepath.Ext(moduleID)

	if ext == "" && !strings.ContainsRune(moduleID, filepath.Separator) && !strings.ContainsRune(moduleID, '/') {
		if _, ok := p.lookupPlugin(moduleID); ok {
			return moduleKindNative, "plugin:" + moduleID, moduleID
		}
	}

	abs := moduleID
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(p.startupDir, abs)
	}

	switch ext {
	case ".sppn":
		return moduleKindNative, strings.TrimSuffix(abs, ext), abs
	case ".spp":
		if _, err := os.Stat(abs); err == nil {
			return moduleKindSource, strings.TrimSuffix(abs, ext), abs
		}
		return moduleKindUnknown, abs, abs
	default:
		if _, err := os.Stat(abs + ".spp"); err == nil {
			return moduleKindSource, abs, abs + ".spp"
		}
		if name := filepath.Base(moduleID); ext == "" {
			if _, ok := p.lookupPlugin(name); ok {
				return moduleKindNative, "plugin:" + name, name
			}
		}
		return moduleKindUnknown, abs, abs
	}
}

// loadSource tokenizes, parses, and evaluates a `.spp` file against a
// fresh Module-kind scope whose outer is the Program's Root, per spec.md
// §4.6 step 3.
func (p *Program) loadSource(key, path string) (*object.Module, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, scripterrors.NewRuntimeError(fmt.Sprintf("cannot import %q: %v", path, err), lexer.Span{})
	}

	lx := lexer.New(string(source), path)
	tokens, lexErrs := lx.ScanTokens()
	if len(lexErrs) > 0 {
		converted := make([]error, len(lexErrs))
		for i, e := range lexErrs {
			converted[i] = scripterrors.NewLexError(e.Message, e.Span)
		}
		return nil, scripterrors.Aggregate(converted...)
	}

	mod, perr := parser.New(tokens).Parse()
	if perr != nil {
		if pe, ok := perr.(*parser.Error); ok {
			return nil, scripterrors.NewParseError(pe.Message, pe.Span)
		}
		return nil, perr
	}

	moduleScope := scope.NewChild(p.Root, scope.KindModule)
	result := &object.Module{Name: filepath.Base(key), Path: key, Scope: moduleScope}

	if _, err := p.ev.EvalModule(mod, moduleScope); err != nil {
		return nil, err
	}
	return result, nil
}

// loadNative dispatches to the registered plugin's entry point, matching
// spec.md §6's native-plugin loader contract: `(out *Module, in *Program)`.
func (p *Program) loadNative(key, name string) (*object.Module, error) {
	base := name
	if strings.HasSuffix(base, ".sppn") {
		base = strings.TrimSuffix(filepath.Base(base), ".sppn")
	}
	plugin, ok := p.lookupPlugin(base)
	if !ok {
		return nil, scripterrors.NewRuntimeError(fmt.Sprintf("no native plugin registered for %q", base), lexer.Span{})
	}

	moduleScope := scope.NewChild(p.Root, scope.KindModule)
	mod := &object.Module{Name: base, Path: key, Scope: moduleScope}
	if err := plugin(mod, p); err != nil {
		return nil, scripterrors.NewRuntimeError(fmt.Sprintf("native plugin %q failed to load: %v", base, err), lexer.Span{})
	}
	return mod, nil
}
