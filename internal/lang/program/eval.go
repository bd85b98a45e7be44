package program

import (
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/parser"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// EvalText implements the `eval(text)` built-in (spec.md §4.6): tokenize
// and parse text as a standalone statement stream, then evaluate it
// against a transient Module scope whose outer is the Program's Root. The
// module is not cached — unlike Import, repeated identical eval() calls
// re-run from source every time, since there is no stable path to key a
// cache entry on.
func (p *Program) EvalText(text string) (object.Value, error) {
	lx := lexer.New(text, "<eval>")
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

	transient := scope.NewChild(p.Root, scope.KindModule)
	return p.ev.EvalModule(mod, transient)
}
