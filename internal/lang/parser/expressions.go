package parser

import (
	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
)

// Precedence ladder (lowest to highest binding), spec.md §4.2:
//
//	parseExpression    -> parseAssignment
//	parseAssignment    -> target = value | target op= value | parseLogicalOr
//	parseLogicalOr     -> parseLogicalAnd (|| parseLogicalAnd)*
//	parseLogicalAnd    -> parseComparison (&& parseComparison)*
//	parseComparison    -> parseAdditive ((== != < <= > >=) parseAdditive)*
//	parseAdditive      -> parseMultiplicative ((+ -) parseMultiplicative)*
//	parseMultiplicative-> parseUnary ((* / %) parseUnary)*
//	parseUnary         -> (- | !) parseUnary | parsePostfix
//	parsePostfix       -> parsePrimary (. IDENT | ( args ) | [ expr ])*
//	parsePrimary       -> literal | identifier | ( expr ) | { ... } | [ ... ]
//	                    | when {...} | fn ... | break | continue
//	                    | throw expr | let a b c = expr

func (p *Parser) parseExpression() ast.ExprNode {
	return p.parseAssignment()
}

// parseAssignment handles both `target = value` and compound assignment.
// Compound assignment is recognized, per spec.md §4.2, by looking one token
// ahead after an arithmetic operator: if PLUS/MINUS/STAR/SLASH/PERCENT is
// immediately followed by ASSIGN, the pair is consumed together and
// desugared into `target = target op value`.
func (p *Parser) parseAssignment() ast.ExprNode {
	expr := p.parseLogicalOr()

	if p.check(lexer.ASSIGN) {
		p.advance()
		value := p.parseAssignment()
		return &ast.Assign{Target: expr, Value: value, Loc: expr.Span().Union(value.Span())}
	}

	if op, ok := p.compoundAssignOp(); ok {
		p.advance() // arithmetic operator
		p.advance() // ASSIGN
		value := p.parseAssignment()
		combined := &ast.BinaryOp{Op: op, Left: expr, Right: value, Loc: expr.Span().Union(value.Span())}
		return &ast.Assign{Target: expr, Value: combined, Loc: expr.Span().Union(value.Span())}
	}

	return expr
}

func (p *Parser) compoundAssignOp() (string, bool) {
	switch p.peek().Kind {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT:
		if p.peekAt(1).Kind == lexer.ASSIGN {
			return p.peek().Lexeme, true
		}
	}
	return "", false
}

func (p *Parser) parseLogicalOr() ast.ExprNode {
	expr := p.parseLogicalAnd()
	for p.check(lexer.OR) {
		p.advance()
		right := p.parseLogicalAnd()
		expr = &ast.BinaryOp{Op: "||", Left: expr, Right: right, Loc: expr.Span().Union(right.Span())}
	}
	return expr
}

func (p *Parser) parseLogicalAnd() ast.ExprNode {
	expr := p.parseComparison()
	for p.check(lexer.AND) {
		p.advance()
		right := p.parseComparison()
		expr = &ast.BinaryOp{Op: "&&", Left: expr, Right: right, Loc: expr.Span().Union(right.Span())}
	}
	return expr
}

func (p *Parser) parseComparison() ast.ExprNode {
	expr := p.parseAdditive()
	for {
		var op string
		switch p.peek().Kind {
		case lexer.EQ:
			op = "=="
		case lexer.NEQ:
			op = "!="
		case lexer.LT:
			op = "<"
		case lexer.LTE:
			op = "<="
		case lexer.GT:
			op = ">"
		case lexer.GTE:
			op = ">="
		default:
			return expr
		}
		p.advance()
		right := p.parseAdditive()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: right, Loc: expr.Span().Union(right.Span())}
	}
}

func (p *Parser) parseAdditive() ast.ExprNode {
	expr := p.parseMultiplicative()
	for {
		var op string
		switch p.peek().Kind {
		case lexer.PLUS:
			op = "+"
		case lexer.MINUS:
			op = "-"
		default:
			return expr
		}
		if p.peekAt(1).Kind == lexer.ASSIGN {
			return expr // `op=`: left for parseAssignment
		}
		p.advance()
		right := p.parseMultiplicative()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: right, Loc: expr.Span().Union(right.Span())}
	}
}

func (p *Parser) parseMultiplicative() ast.ExprNode {
	expr := p.parseUnary()
	for {
		var op string
		switch p.peek().Kind {
		case lexer.STAR:
			op = "*"
		case lexer.SLASH:
			op = "/"
		case lexer.PERCENT:
			op = "%"
		default:
			return expr
		}
		if p.peekAt(1).Kind == lexer.ASSIGN {
			return expr // `op=`: left for parseAssignment
		}
		p.advance()
		right := p.parseUnary()
		expr = &ast.BinaryOp{Op: op, Left: expr, Right: right, Loc: expr.Span().Union(right.Span())}
	}
}

// parseUnary lowers both unary forms into BinaryOp (ast.go's documented
// design): `-x` becomes `x * -1`, and `!x` becomes BinaryOp{Op: "!", Left:
// nil, Right: x}.
func (p *Parser) parseUnary() ast.ExprNode {
	if p.check(lexer.MINUS) {
		tok := p.advance()
		operand := p.parseUnary()
		negOne := &ast.NumericLiteral{Value: int64(-1), Loc: tok.Span}
		return &ast.BinaryOp{Op: "*", Left: operand, Right: negOne, Loc: tok.Span.Union(operand.Span())}
	}
	if p.check(lexer.BANG) {
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.BinaryOp{Op: "!", Left: nil, Right: operand, Loc: tok.Span.Union(operand.Span())}
	}
	return p.parsePostfix()
}

// parsePostfix handles call, dot-access, and index chains binding tighter
// than any operator: `a.b(c)[d].e(...)`.
func (p *Parser) parsePostfix() ast.ExprNode {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(lexer.DOT):
			p.advance()
			name := p.consume(lexer.IDENTIFIER, "expected property name after '.'")
			expr = &ast.Access{Object: expr, Field: name.Lexeme, Loc: expr.Span().Union(name.Span)}
		case p.check(lexer.LPAREN):
			expr = p.parseCall(expr)
		case p.check(lexer.LBRACKET):
			p.advance()
			key := p.parseExpression()
			closeTok := p.consume(lexer.RBRACKET, "expected ']' after index expression")
			expr = &ast.Index{Object: expr, Key: key, Loc: expr.Span().Union(closeTok.Span)}
		default:
			return expr
		}
	}
}

// parseCall parses the `( arg, ..., name: arg, ... )` argument list
// following callee. Positional and named arguments may be interleaved;
// an argument is named when it is a bare identifier immediately followed
// by ':' (spec.md §4.2 "Call arguments").
func (p *Parser) parseCall(callee ast.ExprNode) ast.ExprNode {
	p.consume(lexer.LPAREN, "expected '('")
	var args []ast.ExprNode
	var named []ast.NamedArg
	if !p.check(lexer.RPAREN) {
		for {
			if p.check(lexer.IDENTIFIER) && p.peekAt(1).Kind == lexer.COLON {
				name := p.advance().Lexeme
				p.advance() // COLON
				named = append(named, ast.NamedArg{Name: name, Value: p.parseAssignment()})
			} else {
				args = append(args, p.parseAssignment())
			}
			if !p.check(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	closeTok := p.consume(lexer.RPAREN, "expected ')' to close call arguments")
	return &ast.Call{Callee: callee, Args: args, NamedArgs: named, Loc: callee.Span().Union(closeTok.Span)}
}

func (p *Parser) parsePrimary() ast.ExprNode {
	tok := p.peek()
	switch tok.Kind {
	case lexer.NUMBER:
		p.advance()
		_, isFloat := tok.Literal.(float64)
		return &ast.NumericLiteral{Value: tok.Literal, IsFloat: isFloat, Loc: tok.Span}
	case lexer.STRING:
		p.advance()
		return &ast.StringLiteral{Value: tok.Literal.(string), Loc: tok.Span}
	case lexer.TRUE:
		p.advance()
		return &ast.BooleanLiteral{Value: true, Loc: tok.Span}
	case lexer.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Value: false, Loc: tok.Span}
	case lexer.NULL:
		p.advance()
		return &ast.NullLiteral{Loc: tok.Span}
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Identifier{Name: tok.Lexeme, Loc: tok.Span}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.consume(lexer.RPAREN, "expected ')' to close grouped expression")
		return expr
	case lexer.LBRACE:
		return p.parseScope()
	case lexer.LBRACKET:
		return p.parseListLiteral()
	case lexer.WHEN:
		return p.parseWhen()
	case lexer.FN:
		return p.parseFunction()
	case lexer.BREAK:
		p.advance()
		return &ast.Break{Loc: tok.Span}
	case lexer.CONTINUE:
		p.advance()
		return &ast.Continue{Loc: tok.Span}
	case lexer.THROW:
		p.advance()
		value := p.parseExpression()
		return &ast.Throw{Value: value, Loc: tok.Span.Union(value.Span())}
	case lexer.LET:
		return p.parseLet()
	default:
		fail("expected an expression", tok)
		panic("unreachable")
	}
}

func (p *Parser) parseListLiteral() ast.ExprNode {
	open := p.advance() // LBRACKET
	var elems []ast.ExprNode
	if !p.check(lexer.RBRACKET) {
		for {
			elems = append(elems, p.parseAssignment())
			if !p.check(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	closeTok := p.consume(lexer.RBRACKET, "expected ']' to close list literal")
	return &ast.ListLiteral{Elements: elems, Loc: open.Span.Union(closeTok.Span)}
}

// parseWhen parses `when { cond -> stmt; cond -> stmt; ... }`. There is no
// dedicated `else` syntax: per spec.md §9, the identifier `else` is bound
// to `true` at Program scope, so an `else -> stmt` branch is an ordinary
// condition that always matches when reached.
func (p *Parser) parseWhen() ast.ExprNode {
	tok := p.advance() // WHEN
	p.consume(lexer.LBRACE, "expected '{' after 'when'")
	var branches []ast.WhenBranch
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		cond := p.parseExpression()
		p.consume(lexer.ARROW, "expected '->' after when-branch condition")
		body := p.parseStatement()
		branches = append(branches, ast.WhenBranch{Condition: cond, Body: body})
	}
	closeTok := p.consume(lexer.RBRACE, "expected '}' to close 'when'")
	return &ast.When{Branches: branches, Loc: tok.Span.Union(closeTok.Span)}
}

// parseFunction parses `fn name?(params) { ... }` or `fn name?(params) ->
// expr`. name is empty for anonymous function expressions.
func (p *Parser) parseFunction() ast.ExprNode {
	tok := p.advance() // FN
	var name string
	if p.check(lexer.IDENTIFIER) {
		name = p.advance().Lexeme
	}

	p.consume(lexer.LPAREN, "expected '(' after 'fn'")
	var params []*ast.Parameter
	if !p.check(lexer.RPAREN) {
		for {
			paramTok := p.consume(lexer.IDENTIFIER, "expected parameter name")
			param := &ast.Parameter{Name: paramTok.Lexeme, Loc: paramTok.Span}
			if p.check(lexer.ASSIGN) {
				p.advance()
				param.Default = p.parseAssignment()
			}
			params = append(params, param)
			if !p.check(lexer.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(lexer.RPAREN, "expected ')' after parameter list")

	fn := &ast.Function{Name: name, Parameters: params}
	if p.check(lexer.ARROW) {
		p.advance()
		expr := p.parseAssignment()
		fn.Expr = expr
		fn.Loc = tok.Span.Union(expr.Span())
	} else {
		body := p.parseScope()
		fn.Body = body
		fn.Loc = tok.Span.Union(body.Loc)
	}
	return fn
}

// parseLet parses `let a b c = expr`: one or more identifiers bound to a
// single evaluated right-hand side (spec.md §4.2 "Destructuring let").
func (p *Parser) parseLet() ast.ExprNode {
	tok := p.advance() // LET
	names := []string{p.consume(lexer.IDENTIFIER, "expected identifier after 'let'").Lexeme}
	for p.check(lexer.IDENTIFIER) {
		names = append(names, p.advance().Lexeme)
	}
	p.consume(lexer.ASSIGN, "expected '=' in let statement")
	value := p.parseAssignment()
	return &ast.CreateAndAssign{Names: names, Value: value, Loc: tok.Span.Union(value.Span())}
}
