package eval

import (
	goerrors "errors"

	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// evalFor implements the C-style for loop's state machine (spec.md §4.5
// "For/While"): Init runs once; each iteration checks Cond, runs Body in a
// fresh child scope, consumes a FlowSentinel itself (Break exits, Continue
// falls through to Update) and propagates a ReturnSentinel straight to the
// caller, letting it keep unwinding toward the enclosing FunctionScope.
func (ev *Evaluator) evalFor(n *ast.For, sc *scope.Scope) (object.Value, error) {
	loopScope := scope.NewChild(sc, scope.KindIteration)
	if n.Init != nil {
		if _, err := ev.Eval(n.Init, loopScope); err != nil {
			return nil, err
		}
	}
	var result object.Value = object.NullValue
	for {
		if n.Cond != nil {
			cond, err := ev.EvalValue(n.Cond, loopScope)
			if err != nil {
				return nil, err
			}
			truthy, err := ev.truthy(cond, n.Cond.Span())
			if err != nil {
				return nil, err
			}
			if !truthy {
				break
			}
		}

		bodyScope := scope.NewChild(loopScope, scope.KindNone)
		v, err := ev.Eval(n.Body, bodyScope)
		if err != nil {
			return nil, err
		}
		if rs, ok := v.(*object.ReturnSentinel); ok {
			return rs, nil
		}
		if fs, ok := v.(*object.FlowSentinel); ok {
			if fs.FlowKind == object.FlowBreak {
				break
			}
		} else {
			result = v
		}

		if n.Update != nil {
			if _, err := ev.Eval(n.Update, loopScope); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// evalWhile mirrors evalFor without Init/Update.
func (ev *Evaluator) evalWhile(n *ast.While, sc *scope.Scope) (object.Value, error) {
	loopScope := scope.NewChild(sc, scope.KindIteration)
	var result object.Value = object.NullValue
	for {
		cond, err := ev.EvalValue(n.Cond, loopScope)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(cond, n.Cond.Span())
		if err != nil {
			return nil, err
		}
		if !truthy {
			break
		}

		bodyScope := scope.NewChild(loopScope, scope.KindNone)
		v, err := ev.Eval(n.Body, bodyScope)
		if err != nil {
			return nil, err
		}
		if rs, ok := v.(*object.ReturnSentinel); ok {
			return rs, nil
		}
		if fs, ok := v.(*object.FlowSentinel); ok {
			if fs.FlowKind == object.FlowBreak {
				break
			}
			continue
		}
		result = v
	}
	return result, nil
}

// evalTryCatch runs the try-scope; a *Thrown escaping it is caught, bound
// to CatchIdent if one was named, and the catch-scope is run against it
// (spec.md §4.5 "Try/catch"). Any other Go error (there currently is no
// other kind) is not an scriptpp-level exception and propagates unchanged.
func (ev *Evaluator) evalTryCatch(n *ast.TryCatch, sc *scope.Scope) (object.Value, error) {
	tryScope := scope.NewChild(sc, scope.KindNone)
	v, err := ev.evalStatements(n.Try.Statements, tryScope)
	if err == nil {
		return v, nil
	}
	var thrown *Thrown
	if !goerrors.As(err, &thrown) {
		return nil, err
	}
	catchScope := scope.NewChild(sc, scope.KindNone)
	if n.CatchIdent != "" {
		catchScope.Define(n.CatchIdent, thrown.Exc)
	}
	return ev.evalStatements(n.Catch.Statements, catchScope)
}

// evalClass runs the class body's statements against a scratch scope and
// captures whatever ended up bound there as the resulting Prototype's
// Members (spec.md §4.5 "Class declarations evaluate to a Prototype").
// Parents is carried through unused, per spec.md §9's open question.
func (ev *Evaluator) evalClass(n *ast.Class, sc *scope.Scope) (object.Value, error) {
	bodyScope := scope.NewChild(sc, scope.KindNone)
	if _, err := ev.evalStatements(n.Body.Statements, bodyScope); err != nil {
		return nil, err
	}
	proto := &object.Prototype{Name: n.Name, Parents: n.Parents, Members: bodyScope.Bindings()}
	sc.Define(n.Name, proto)
	return proto, nil
}
