package object

import "strings"

// Reserved operator-override slot names. A DynamicObject whose Properties
// include one of these (bound to a Function) customizes the corresponding
// language operation instead of falling back to the default behavior
// (spec.md §3 "reserved operator-override slots").
const (
	SlotCall     = "__call__"
	SlotGet      = "__get__"
	SlotSet      = "__set__"
	SlotCtor     = "__ctor__"
	SlotAdd      = "__add__"
	SlotSubtract = "__subtract__"
	SlotDivide   = "__divide__"
	SlotMultiply = "__multiply__"
	SlotMod      = "__mod__"
	SlotString   = "__string__"
	SlotBool     = "__bool__"
	SlotEqual    = "__equal__"
	SlotLess     = "__less__"
	SlotGreater  = "__greater__"
)

// DynamicObject is a bag of named properties — the result of instantiating
// a Prototype, or any object built up by assigning properties one at a
// time. List, String, Dictionary, Module, Thread and Exception are
// separate types, not DynamicObjects: the evaluator checks for the slots
// above only on a *DynamicObject operand before applying default operator
// semantics.
type DynamicObject struct {
	ProtoName  string
	Properties map[string]Value
}

// NewDynamicObject returns an empty DynamicObject with no originating
// prototype.
func NewDynamicObject() *DynamicObject {
	return &DynamicObject{Properties: make(map[string]Value)}
}

func (d *DynamicObject) Kind() Kind { return KindDynamicObject }

func (d *DynamicObject) String() string {
	var b strings.Builder
	if d.ProtoName != "" {
		b.WriteString(d.ProtoName)
	} else {
		b.WriteString("object")
	}
	b.WriteByte('{')
	first := true
	for k, v := range d.Properties {
		if strings.HasPrefix(k, "__") && strings.HasSuffix(k, "__") {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Get returns the named property, without consulting __get__.
func (d *DynamicObject) Get(name string) (Value, bool) {
	v, ok := d.Properties[name]
	return v, ok
}

// Set assigns the named property directly, without consulting __set__.
func (d *DynamicObject) Set(name string, v Value) { d.Properties[name] = v }

// Reference returns a settable Reference to the named property, creating
// it on first Set.
func (d *DynamicObject) Reference(name string) Reference {
	return Reference{
		Name: name,
		Get: func() (Value, error) {
			if v, ok := d.Properties[name]; ok {
				return v, nil
			}
			return NullValue, nil
		},
		Set: func(v Value) error {
			d.Properties[name] = v
			return nil
		},
	}
}

// Override returns the Function bound to the given reserved slot, if any.
func (d *DynamicObject) Override(slot string) (*Function, bool) {
	v, ok := d.Properties[slot]
	if !ok {
		return nil, false
	}
	fn, ok := v.(*Function)
	return fn, ok
}

// propertyScope adapts a DynamicObject's Properties into a Scope so method
// bodies can reference instance properties as bare identifiers rather than
// always writing `this.name` (spec.md GLOSSARY: "DynamicObject ... also a
// scope participant, so methods can be found via chain lookup").
type propertyScope struct {
	obj   *DynamicObject
	outer Scope
}

// AsScope wraps d as a Scope whose outer is outer, for splicing between a
// method call's FunctionScope and the scope the method closed over.
func (d *DynamicObject) AsScope(outer Scope) Scope {
	return &propertyScope{obj: d, outer: outer}
}

func (p *propertyScope) Lookup(name string) (Reference, bool) {
	if _, ok := p.obj.Properties[name]; ok {
		return p.obj.Reference(name), true
	}
	if p.outer == nil {
		return Reference{}, false
	}
	return p.outer.Lookup(name)
}

func (p *propertyScope) Define(name string, v Value) Reference {
	p.obj.Properties[name] = v
	return p.obj.Reference(name)
}

func (p *propertyScope) Outer() Scope { return p.outer }

// Prototype is a callable blueprint: calling one constructs a new
// DynamicObject whose Properties start as a copy of Members, then — if
// Members defines __ctor__ — has that constructor function invoked against
// it by the evaluator. Parents is recorded but intentionally never
// consulted (spec.md §9): there is no method-resolution order here.
type Prototype struct {
	Name    string
	Parents []string
	Members map[string]Value
}

func (p *Prototype) Kind() Kind     { return KindPrototype }
func (p *Prototype) String() string { return "<class " + p.Name + ">" }

// Instantiate builds a new DynamicObject carrying a copy of p's members.
// Member Functions close over the class body scope, not over the new
// instance; instance-local state lives entirely in Properties.
func (p *Prototype) Instantiate() *DynamicObject {
	obj := NewDynamicObject()
	obj.ProtoName = p.Name
	for k, v := range p.Members {
		obj.Properties[k] = v
	}
	return obj
}
