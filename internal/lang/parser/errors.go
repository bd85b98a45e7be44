// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a lexer.Token stream into an ast.Module.
//
// Error policy (spec.md §4.2): parsing fails fast. The first malformed
// construct panics with an *Error carrying its span; there is no
// panic-mode recovery or synchronization to a later token. Parse recovers
// the panic at the top level and returns it as a plain error.
package parser

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
)

// Error is a single parse failure: an unexpected or missing token at a
// specific span.
type Error struct {
	Message string
	Span    lexer.Span
	Token   lexer.Token
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error at %s: %s (got %s)", e.Span, e.Message, e.Token.Kind)
}

// fail panics with a parse Error anchored at tok. Every parser method that
// detects a malformed construct calls this instead of returning an error,
// per the fail-fast policy above.
func fail(message string, tok lexer.Token) {
	panic(&Error{Message: message, Span: tok.Span, Token: tok})
}
