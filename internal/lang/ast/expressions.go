package ast

import "github.com/scriptpp-lang/scriptpp/internal/lang/lexer"

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
	Loc   lexer.Span
}

func (s *StringLiteral) node()            {}
func (s *StringLiteral) Span() lexer.Span { return s.Loc }
func (s *StringLiteral) exprNode()        {}

// NumericLiteral is an integer or floating-point constant, as classified by
// the lexer (spec.md §4.1 step 4).
type NumericLiteral struct {
	Value   interface{} // int64 or float64
	IsFloat bool
	Loc     lexer.Span
}

func (n *NumericLiteral) node()            {}
func (n *NumericLiteral) Span() lexer.Span { return n.Loc }
func (n *NumericLiteral) exprNode()        {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Value bool
	Loc   lexer.Span
}

func (b *BooleanLiteral) node()            {}
func (b *BooleanLiteral) Span() lexer.Span { return b.Loc }
func (b *BooleanLiteral) exprNode()        {}

// NullLiteral is `null`.
type NullLiteral struct{ Loc lexer.Span }

func (n *NullLiteral) node()            {}
func (n *NullLiteral) Span() lexer.Span { return n.Loc }
func (n *NullLiteral) exprNode()        {}

// ListLiteral is `[ e1, e2, ... ]`.
type ListLiteral struct {
	Elements []ExprNode
	Loc      lexer.Span
}

func (l *ListLiteral) node()            {}
func (l *ListLiteral) Span() lexer.Span { return l.Loc }
func (l *ListLiteral) exprNode()        {}

// Identifier is a bare name reference. Evaluating one always yields a
// Reference, never a bare value (spec.md §3 Invariants).
type Identifier struct {
	Name string
	Loc  lexer.Span
}

func (i *Identifier) node()            {}
func (i *Identifier) Span() lexer.Span { return i.Loc }
func (i *Identifier) exprNode()        {}

// BinaryOp covers every binary operator, plus two special-cased unary forms
// that spec.md §3/§4.2 describe as lowered into BinaryOp rather than given
// their own node kind:
//
//   - unary minus `-x` lowers to BinaryOp{Op: "*", Left: x, Right: -1}
//   - unary not `!x` is represented as BinaryOp{Op: "!", Left: nil, Right: x}
//     — Left is nil and the evaluator special-cases Op == "!" to ignore it.
type BinaryOp struct {
	Op    string
	Left  ExprNode // nil only when Op == "!"
	Right ExprNode
	Loc   lexer.Span
}

func (b *BinaryOp) node()            {}
func (b *BinaryOp) Span() lexer.Span { return b.Loc }
func (b *BinaryOp) exprNode()        {}

// Assign is `target = value`, or a desugared compound assignment
// (`target op= value` becomes Assign{Target: target, Value: BinaryOp{op,
// target, value}}). Target is an Identifier, Access, or Index node.
type Assign struct {
	Target ExprNode
	Value  ExprNode
	Loc    lexer.Span
}

func (a *Assign) node()            {}
func (a *Assign) Span() lexer.Span { return a.Loc }
func (a *Assign) exprNode()        {}

// CreateAndAssign is `let a b c = expr;`: one evaluated RHS bound to every
// named identifier (spec.md §4.2 "Destructuring let").
type CreateAndAssign struct {
	Names []string
	Value ExprNode
	Loc   lexer.Span
}

func (c *CreateAndAssign) node()            {}
func (c *CreateAndAssign) Span() lexer.Span { return c.Loc }
func (c *CreateAndAssign) exprNode()        {}
func (c *CreateAndAssign) stmtNode()        {}

// Access is `object.field`.
type Access struct {
	Object ExprNode
	Field  string
	Loc    lexer.Span
}

func (a *Access) node()            {}
func (a *Access) Span() lexer.Span { return a.Loc }
func (a *Access) exprNode()        {}

// Index is `object[key]`.
type Index struct {
	Object ExprNode
	Key    ExprNode
	Loc    lexer.Span
}

func (i *Index) node()            {}
func (i *Index) Span() lexer.Span { return i.Loc }
func (i *Index) exprNode()        {}

// NamedArg is a `name: expr` call argument.
type NamedArg struct {
	Name  string
	Value ExprNode
}

// Call is a function/method invocation with positional and/or named
// arguments, evaluated left-to-right (spec.md §4.2 "Call arguments").
type Call struct {
	Callee    ExprNode
	Args      []ExprNode
	NamedArgs []NamedArg
	Loc       lexer.Span
}

func (c *Call) node()            {}
func (c *Call) Span() lexer.Span { return c.Loc }
func (c *Call) exprNode()        {}
