// Package eval implements scriptpp's tree-walking evaluator: a pure
// `(node, scope) -> Value` walk over the AST produced by
// internal/lang/parser, dispatching operators and coercions through the
// reserved-slot overrides a DynamicObject may define (spec.md §4.5).
package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// frame is one activation record kept for stack-trace rendering: the
// string form of the function being called and the span of the call site
// that invoked it (spec.md §9 "Stack traces").
type frame struct {
	fn   string
	span lexer.Span
}

// Evaluator holds the call-stack state a single evaluation needs to build
// Exception stack traces. It carries no scope state of its own — every
// Eval call is given the scope to run against — so one Evaluator can walk
// a Module's top-level statements and every call that module makes.
type Evaluator struct {
	frames []frame
}

// New returns an Evaluator with an empty call stack.
func New() *Evaluator {
	return &Evaluator{}
}

func (ev *Evaluator) pushFrame(fn string, span lexer.Span) {
	ev.frames = append(ev.frames, frame{fn: fn, span: span})
}

func (ev *Evaluator) popFrame() {
	ev.frames = ev.frames[:len(ev.frames)-1]
}

// snapshotStack renders the current call stack innermost-frame-first, the
// form Exception.Stack and the driver's uncaught-exception report use
// (spec.md §7 "one indented stack-frame line per activation").
func (ev *Evaluator) snapshotStack() []string {
	out := make([]string, len(ev.frames))
	for i, f := range ev.frames {
		out[len(ev.frames)-1-i] = fmt.Sprintf("%s @ %s:%d:%d", f.fn, f.span.File, f.span.StartLine, f.span.StartCol)
	}
	return out
}

// fail converts a structured ScriptError into the host-language exception
// the rest of the evaluator propagates as a Go error: a *Thrown wrapping an
// object.Exception whose Value is the error's message and whose Stack is
// the current call chain (spec.md §7 "wrapped in an Exception value with
// the current call-chain snapshot").
func (ev *Evaluator) fail(scriptErr *scripterrors.ScriptError) error {
	return &Thrown{Exc: &object.Exception{
		Value: &object.String{Value: scriptErr.Message},
		Stack: ev.snapshotStack(),
	}}
}

func (ev *Evaluator) nameError(name string, span lexer.Span) error {
	return ev.fail(scripterrors.NewNameError(name, span))
}

func (ev *Evaluator) typeError(message string, span lexer.Span) error {
	return ev.fail(scripterrors.NewTypeError(message, span))
}

func (ev *Evaluator) runtimeError(message string, span lexer.Span) error {
	return ev.fail(scripterrors.NewRuntimeError(message, span))
}

func (ev *Evaluator) argumentError(message string, span lexer.Span) error {
	return ev.fail(scripterrors.NewArgumentError(message, span))
}

// EvalModule runs every top-level statement of mod against sc in order and
// returns the last statement's value (spec.md §4.6 "tokenize, parse,
// evaluate the module AST against a fresh Module scope").
func (ev *Evaluator) EvalModule(mod *ast.Module, sc *scope.Scope) (object.Value, error) {
	return ev.evalStatements(mod.Statements, sc)
}

// evalStatements runs stmts against sc in order, stopping early if a
// Return or Break/Continue sentinel surfaces so it can propagate to
// whichever enclosing construct is responsible for consuming it (spec.md
// §4.5 "State machine — loop body").
func (ev *Evaluator) evalStatements(stmts []ast.StmtNode, sc *scope.Scope) (object.Value, error) {
	var result object.Value = object.NullValue
	for _, stmt := range stmts {
		v, err := ev.Eval(stmt, sc)
		if err != nil {
			return nil, err
		}
		result = v
		switch result.(type) {
		case *object.ReturnSentinel, *object.FlowSentinel:
			return result, nil
		}
	}
	return result, nil
}

// EvalValue evaluates node and dereferences the result if it is an
// object.Reference (the Identifier case — spec.md §3 invariant "evaluating
// an Identifier always yields a Reference, never a bare value"; most
// contexts other than an assignment target want the value behind it).
func (ev *Evaluator) EvalValue(node ast.Node, sc *scope.Scope) (object.Value, error) {
	v, err := ev.Eval(node, sc)
	if err != nil {
		return nil, err
	}
	if ref, ok := v.(object.Reference); ok {
		return ref.Deref()
	}
	return v, nil
}

// Eval is the core dispatcher: one case per AST node kind. It is exported
// so the program package (and tests) can evaluate arbitrary nodes — e.g.
// `eval(text)` evaluating a freshly parsed statement stream — without
// reimplementing dispatch.
func (ev *Evaluator) Eval(node ast.Node, sc *scope.Scope) (object.Value, error) {
	switch n := node.(type) {

	// --- Literals ---
	case *ast.StringLiteral:
		return &object.String{Value: n.Value}, nil
	case *ast.NumericLiteral:
		if n.IsFloat {
			return object.NewFloat64(n.Value.(float64)), nil
		}
		return object.NewInt64(n.Value.(int64)), nil
	case *ast.BooleanLiteral:
		return object.BoolValue(n.Value), nil
	case *ast.NullLiteral:
		return object.NullValue, nil
	case *ast.ListLiteral:
		elems := make([]object.Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := ev.EvalValue(el, sc)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &object.List{Elements: elems}, nil

	// --- Identifier / reference-producing ---
	case *ast.Identifier:
		ref, ok := sc.Lookup(n.Name)
		if !ok {
			return nil, ev.nameError(n.Name, n.Loc)
		}
		return ref, nil

	// --- Operators ---
	case *ast.BinaryOp:
		return ev.evalBinaryOp(n, sc)
	case *ast.Assign:
		return ev.evalAssign(n, sc)
	case *ast.CreateAndAssign:
		return ev.evalCreateAndAssign(n, sc)

	// --- Access / Index ---
	case *ast.Access:
		obj, err := ev.EvalValue(n.Object, sc)
		if err != nil {
			return nil, err
		}
		return ev.getProperty(obj, n.Field, n.Loc)
	case *ast.Index:
		obj, err := ev.EvalValue(n.Object, sc)
		if err != nil {
			return nil, err
		}
		key, err := ev.EvalValue(n.Key, sc)
		if err != nil {
			return nil, err
		}
		return ev.getIndex(obj, key, n.Loc)

	// --- Calls ---
	case *ast.Call:
		return ev.evalCall(n, sc)

	// --- Scope-as-expression ---
	case *ast.Scope:
		child := scope.NewChild(sc, scope.KindNone)
		return ev.evalStatements(n.Statements, child)

	// --- Control flow expressions ---
	case *ast.When:
		return ev.evalWhen(n, sc)
	case *ast.Function:
		fn := &object.Function{Name: n.Name, Parameters: n.Parameters, Body: n.Body, Expr: n.Expr, Closure: sc}
		if n.Name != "" {
			sc.Define(n.Name, fn)
		}
		return fn, nil
	case *ast.Break:
		return &object.FlowSentinel{FlowKind: object.FlowBreak}, nil
	case *ast.Continue:
		return &object.FlowSentinel{FlowKind: object.FlowContinue}, nil
	case *ast.Throw:
		val, err := ev.EvalValue(n.Value, sc)
		if err != nil {
			return nil, err
		}
		return nil, &Thrown{Exc: &object.Exception{Value: val, Stack: ev.snapshotStack()}}

	// --- Statements ---
	case *ast.ExprStmt:
		return ev.Eval(n.Expr, sc)
	case *ast.NoOp:
		return object.NullValue, nil
	case *ast.Return:
		return ev.evalReturn(n, sc)
	case *ast.For:
		return ev.evalFor(n, sc)
	case *ast.While:
		return ev.evalWhile(n, sc)
	case *ast.TryCatch:
		return ev.evalTryCatch(n, sc)
	case *ast.Class:
		return ev.evalClass(n, sc)

	default:
		return nil, ev.typeError(fmt.Sprintf("cannot evaluate node of type %T", node), node.Span())
	}
}

func (ev *Evaluator) evalReturn(n *ast.Return, sc *scope.Scope) (object.Value, error) {
	var val object.Value = object.NullValue
	if n.Value != nil {
		v, err := ev.EvalValue(n.Value, sc)
		if err != nil {
			return nil, err
		}
		val = v
	}
	if !sc.HasKind(scope.KindFunction) {
		// spec.md §4.5: "elsewhere it yields the bare value" — return used
		// outside any function just produces a value, nothing unwinds.
		return val, nil
	}
	return &object.ReturnSentinel{Value: val}, nil
}

func (ev *Evaluator) evalWhen(n *ast.When, sc *scope.Scope) (object.Value, error) {
	for _, branch := range n.Branches {
		cond, err := ev.EvalValue(branch.Condition, sc)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(cond, branch.Condition.Span())
		if err != nil {
			return nil, err
		}
		if truthy {
			return ev.Eval(branch.Body, sc)
		}
	}
	return object.NullValue, nil
}

func (ev *Evaluator) evalCreateAndAssign(n *ast.CreateAndAssign, sc *scope.Scope) (object.Value, error) {
	val, err := ev.EvalValue(n.Value, sc)
	if err != nil {
		return nil, err
	}
	for _, name := range n.Names {
		sc.Define(name, val)
	}
	return val, nil
}
