// Package scope implements scriptpp's scope chain: the lexical bindings
// expressions and statements resolve identifiers against (spec.md §4.4).
// A DynamicObject holding a closure back into the scope that captured it
// (spec.md §4.4/§9's method-as-closure) is exactly the kind of reference
// cycle a tracing GC collects without help; spec.md's Non-goals list
// "garbage collector (ownership-graph based reclamation is sufficient)",
// so this package carries no C++-style weak-pointer cycle-breaking —
// Go's GC is why none is needed.
package scope

import "github.com/scriptpp-lang/scriptpp/internal/lang/object"

// Kind classifies what a Scope represents, used by HasKind to answer
// "am I lexically inside a function/loop/module" while walking outward.
type Kind int

const (
	KindNone Kind = iota
	KindModule
	KindFunction
	KindIteration
	KindProgram
)

// Scope is a single lexical frame: a set of name bindings plus a link to
// the enclosing scope. Scope satisfies object.Scope structurally (Lookup/
// Define/Outer), so a *Scope can be stored directly as a Function's
// closure without this package needing to be imported by object.
//
// parent is typed as the object.Scope interface rather than *Scope so a
// non-lexical scope participant — a DynamicObject exposing its properties
// as a scope, via object.DynamicObject.AsScope — can sit in the chain
// between a method's FunctionScope and the scope the method closed over,
// letting a method body reference instance properties as bare identifiers
// (spec.md GLOSSARY: "DynamicObject ... also a scope participant").
type Scope struct {
	kind     Kind
	parent   object.Scope
	bindings map[string]object.Value
}

// New creates a root scope of the given kind with no parent — used once,
// for the Program scope (spec.md §4.6).
func New(kind Kind) *Scope {
	return &Scope{kind: kind, bindings: make(map[string]object.Value)}
}

// NewChild creates a scope of kind nested inside parent. parent is an
// object.Scope rather than a concrete *Scope so a DynamicObject property
// scope can be spliced into the chain (see the Scope.parent doc).
func NewChild(parent object.Scope, kind Kind) *Scope {
	return &Scope{kind: kind, parent: parent, bindings: make(map[string]object.Value)}
}

func (s *Scope) Kind() Kind { return s.kind }

// Outer returns the enclosing scope, satisfying object.Scope.
func (s *Scope) Outer() object.Scope { return s.parent }

// HasKind reports whether s or any enclosing *Scope is of the given kind.
// This is how the evaluator asks "am I inside a function" (to know whether
// `return` has somewhere to return to) or "am I inside a loop" (for
// `break`/`continue`) in O(depth) without a separate stack. Non-*Scope links
// in the chain — a DynamicObject's property scope, spliced in for method
// bodies — carry no Kind of their own and are transparent: the walk passes
// straight through them to whatever they in turn are chained to.
func (s *Scope) HasKind(kind Kind) bool {
	var cur object.Scope = s
	for cur != nil {
		real, ok := cur.(*Scope)
		if !ok {
			cur = cur.Outer()
			continue
		}
		if real.kind == kind {
			return true
		}
		cur = real.parent
	}
	return false
}

// Lookup searches s and its enclosing chain for name, satisfying
// object.Scope. Delegating to s.parent.Lookup (rather than looping
// manually over *Scope links) lets any object.Scope implementor — not
// just *Scope — take part in the chain.
func (s *Scope) Lookup(name string) (object.Reference, bool) {
	if _, ok := s.bindings[name]; ok {
		return s.reference(name), true
	}
	if s.parent == nil {
		return object.Reference{}, false
	}
	return s.parent.Lookup(name)
}

func (s *Scope) reference(name string) object.Reference {
	return object.Reference{
		Name: name,
		Get: func() (object.Value, error) {
			return s.bindings[name], nil
		},
		Set: func(v object.Value) error {
			s.bindings[name] = v
			return nil
		},
	}
}

// Define creates name in s directly (not searching outward), satisfying
// object.Scope. Redeclaring an existing name simply overwrites it —
// scriptpp's `let` has no separate "already declared" error (spec.md
// §4.2's destructuring let always (re)creates every named binding).
func (s *Scope) Define(name string, v object.Value) object.Reference {
	s.bindings[name] = v
	return s.reference(name)
}

// Assign walks outward from s looking for an existing binding of name and
// updates it in place. It returns false if no enclosing scope has bound
// name yet, letting the evaluator turn that into a NameError rather than
// silently creating a new global.
func (s *Scope) Assign(name string, v object.Value) bool {
	ref, ok := s.Lookup(name)
	if !ok {
		return false
	}
	_ = ref.Set(v)
	return true
}

// Has reports whether name is bound anywhere in s's chain.
func (s *Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Bindings returns a copy of the bindings defined directly in s (not
// searching outward). Used when a Class body's statements have run against
// a scratch scope and the evaluator collects what that scope ended up
// holding as the resulting Prototype's Members (spec.md §4.5 "Class
// declarations evaluate to a Prototype").
func (s *Scope) Bindings() map[string]object.Value {
	out := make(map[string]object.Value, len(s.bindings))
	for k, v := range s.bindings {
		out[k] = v
	}
	return out
}
