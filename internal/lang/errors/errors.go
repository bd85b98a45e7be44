// Package errors provides the structured error taxonomy raised by the
// scriptpp lexer, parser, and evaluator: LexError, ParseError, NameError,
// TypeError, ArgumentError, RuntimeError, and UserError (spec.md §7).
package errors

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
)

// Category identifies which stage of the pipeline raised a ScriptError.
type Category string

const (
	// Lex covers malformed literals and unterminated strings/comments.
	Lex Category = "lex"
	// Parse covers malformed syntax; parsing is fail-fast (spec.md §4.2),
	// so a module never carries more than one ParseError.
	Parse Category = "parse"
	// Name covers references to identifiers not bound in any enclosing
	// scope (spec.md §4.4).
	Name Category = "name"
	// Type covers operations applied to values of an incompatible kind
	// (e.g. adding a List to a Number).
	Type Category = "type"
	// Argument covers call-arity and named-argument mismatches.
	Argument Category = "argument"
	// Runtime covers host-level failures: division by zero, index out of
	// range, a required plugin export missing.
	Runtime Category = "runtime"
	// User covers values raised by script-level `throw` (spec.md §4.5).
	User Category = "user"
)

// Severity distinguishes a hard failure from a diagnostic hint. The
// evaluator only ever raises SeverityError; SeverityWarning exists for the
// language server's best-effort diagnostics (internal/lsp).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ScriptError is the single structured error type raised anywhere in the
// pipeline. Every constructor below fills in Category and a message;
// builder methods attach optional context.
type ScriptError struct {
	Category   Category    `json:"category"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	Span       lexer.Span  `json:"span"`
	Stack      []string    `json:"stack,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
	Value      interface{} `json:"value,omitempty"`
}

// Error implements the error interface with a compact single-line form.
func (e *ScriptError) Error() string {
	return FormatCompact(e)
}

// WithStack attaches a call-stack trace (innermost frame first), built by
// the evaluator while unwinding a RuntimeError or UserError.
func (e *ScriptError) WithStack(frames ...string) *ScriptError {
	e.Stack = frames
	return e
}

// WithSuggestion attaches a short remediation hint.
func (e *ScriptError) WithSuggestion(s string) *ScriptError {
	e.Suggestion = s
	return e
}

// NewLexError reports a malformed literal or unterminated string/comment.
func NewLexError(message string, span lexer.Span) *ScriptError {
	return &ScriptError{Category: Lex, Severity: SeverityError, Message: message, Span: span}
}

// NewParseError reports the single fail-fast parse failure for a module.
func NewParseError(message string, span lexer.Span) *ScriptError {
	return &ScriptError{Category: Parse, Severity: SeverityError, Message: message, Span: span}
}

// NewNameError reports a reference to an identifier with no binding in any
// enclosing scope.
func NewNameError(name string, span lexer.Span) *ScriptError {
	return &ScriptError{
		Category: Name,
		Severity: SeverityError,
		Message:  fmt.Sprintf("undefined identifier %q", name),
		Span:     span,
	}
}

// NewTypeError reports an operation applied to a value of an incompatible
// kind, e.g. `[1] + 2`.
func NewTypeError(message string, span lexer.Span) *ScriptError {
	return &ScriptError{Category: Type, Severity: SeverityError, Message: message, Span: span}
}

// NewArgumentError reports a call-arity or named-argument mismatch.
func NewArgumentError(message string, span lexer.Span) *ScriptError {
	return &ScriptError{Category: Argument, Severity: SeverityError, Message: message, Span: span}
}

// NewRuntimeError reports a host-level failure with no script-visible
// cause: division by zero, index out of range, a missing plugin export.
func NewRuntimeError(message string, span lexer.Span) *ScriptError {
	return &ScriptError{Category: Runtime, Severity: SeverityError, Message: message, Span: span}
}

// NewUserError wraps a script-level `throw value` as a host error so it can
// propagate through Go call frames (native functions, plugin entry points)
// before being caught by a `catch` block or surfaced to the host.
func NewUserError(value interface{}, span lexer.Span) *ScriptError {
	return &ScriptError{
		Category: User,
		Severity: SeverityError,
		Message:  fmt.Sprintf("uncaught throw: %v", value),
		Span:     span,
		Value:    value,
	}
}

// Aggregate combines multiple independent errors (e.g. every LexError found
// in one scan) into a single error value that still reports each one on
// Unwrap/inspection, rather than discarding all but the first.
func Aggregate(errs ...error) error {
	var combined error
	for _, err := range errs {
		combined = multierr.Append(combined, err)
	}
	return combined
}
