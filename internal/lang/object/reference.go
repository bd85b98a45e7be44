package object

// Reference is the indirection every lvalue-producing expression evaluates
// to (spec.md §3 Invariants: "evaluating an Identifier always yields a
// Reference, never a bare value"). Rather than a tagged union of
// reference kinds (plain scope binding, named export, list index,
// dictionary-or-dynamic-object property, setter-callback), a Reference is
// a pair of closures: whoever constructs one — a Scope binding a name, a
// List indexing an element, a Dictionary or DynamicObject resolving a
// property — captures whatever storage it points at. The evaluator never
// needs to know which kind of storage lies behind a Reference; it only
// ever calls Get or Set.
type Reference struct {
	Name string
	Get  func() (Value, error)
	Set  func(Value) error
}

func (r Reference) Kind() Kind { return KindReference }

func (r Reference) String() string {
	if r.Name != "" {
		return "&" + r.Name
	}
	return "&<reference>"
}

// Deref reads through r, or returns Null with no error if r has no Get
// closure (a write-only reference, which scriptpp does not construct but
// which the type permits).
func (r Reference) Deref() (Value, error) {
	if r.Get == nil {
		return NullValue, nil
	}
	return r.Get()
}
