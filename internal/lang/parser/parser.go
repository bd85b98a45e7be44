package parser

import (
	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
)

// Parser consumes a flat token slice produced by lexer.ScanTokens and
// produces an ast.Module. It is not safe for concurrent use; each Parser
// parses exactly one token stream.
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New constructs a Parser over tokens. tokens must end with an EOF token,
// as lexer.ScanTokens guarantees.
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse runs the parser to completion. Per the fail-fast policy (spec.md
// §4.2), the first malformed construct aborts parsing immediately; Parse
// recovers that panic and returns it as err rather than propagating it,
// so callers never observe a partially-built Module alongside an error.
func (p *Parser) Parse() (mod *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*Error); ok {
				err = perr
				return
			}
			panic(r)
		}
	}()

	var stmts []ast.StmtNode
	for !p.isAtEnd() {
		stmts = append(stmts, p.parseStatement())
	}

	var span lexer.Span
	if len(p.tokens) > 0 {
		span = p.tokens[0].Span.Union(p.tokens[len(p.tokens)-1].Span)
	}
	return &ast.Module{Statements: stmts, Loc: span}, nil
}

// parseStatement parses one top-level or block-level statement. Constructs
// that are also valid expressions (When, Function, Scope, Throw, Break,
// Continue, CreateAndAssign) are parsed once via parseExpression and
// recognized as statements by type assertion, rather than duplicated here.
func (p *Parser) parseStatement() ast.StmtNode {
	switch p.peek().Kind {
	case lexer.SEMI:
		tok := p.advance()
		return &ast.NoOp{Loc: tok.Span}
	case lexer.FOR:
		return p.parseFor()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.TRY:
		return p.parseTryCatch()
	case lexer.CLASS:
		return p.parseClass()
	case lexer.RETURN:
		return p.parseReturn()
	default:
		stmt := p.parseSimpleStatement()
		p.consumeOptionalSemi()
		return stmt
	}
}

// parseSimpleStatement parses a bare expression statement without consuming
// a trailing separator, for reuse inside for-loop clauses where the
// separators are mandatory and parsed by the caller.
func (p *Parser) parseSimpleStatement() ast.StmtNode {
	expr := p.parseExpression()
	if stmt, ok := expr.(ast.StmtNode); ok {
		return stmt
	}
	return &ast.ExprStmt{Expr: expr, Loc: expr.Span()}
}

func (p *Parser) consumeOptionalSemi() {
	if p.check(lexer.SEMI) {
		p.advance()
	}
}

// parseScope parses a `{ statement* }` block, used for function bodies,
// for/while bodies, try/catch bodies, class bodies, and scope expressions.
func (p *Parser) parseScope() *ast.Scope {
	open := p.consume(lexer.LBRACE, "expected '{' to open a block")
	var stmts []ast.StmtNode
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.parseStatement())
	}
	closeTok := p.consume(lexer.RBRACE, "expected '}' to close block")
	return &ast.Scope{Statements: stmts, Loc: open.Span.Union(closeTok.Span)}
}

// parseFor parses `for (init; cond; update) body`. Each clause may be
// empty; init and update are ordinary statements, not restricted to let or
// assignment.
func (p *Parser) parseFor() ast.StmtNode {
	tok := p.advance() // FOR
	p.consume(lexer.LPAREN, "expected '(' after 'for'")

	var init ast.StmtNode
	if !p.check(lexer.SEMI) {
		init = p.parseSimpleStatement()
	}
	p.consume(lexer.SEMI, "expected ';' after for-loop initializer")

	var cond ast.ExprNode
	if !p.check(lexer.SEMI) {
		cond = p.parseExpression()
	}
	p.consume(lexer.SEMI, "expected ';' after for-loop condition")

	var update ast.StmtNode
	if !p.check(lexer.RPAREN) {
		update = p.parseSimpleStatement()
	}
	p.consume(lexer.RPAREN, "expected ')' after for-loop clauses")

	body := p.parseStatement()
	return &ast.For{Init: init, Cond: cond, Update: update, Body: body, Loc: tok.Span.Union(body.Span())}
}

func (p *Parser) parseWhile() ast.StmtNode {
	tok := p.advance() // WHILE
	p.consume(lexer.LPAREN, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(lexer.RPAREN, "expected ')' after while-condition")
	body := p.parseStatement()
	return &ast.While{Cond: cond, Body: body, Loc: tok.Span.Union(body.Span())}
}

// parseTryCatch parses `try { ... } catch [identifier] { ... }`. The catch
// identifier is optional; when absent the caught exception value is
// discarded.
func (p *Parser) parseTryCatch() ast.StmtNode {
	tok := p.advance() // TRY
	tryBody := p.parseScope()
	p.consume(lexer.CATCH, "expected 'catch' after try block")
	var catchIdent string
	if p.check(lexer.IDENTIFIER) {
		catchIdent = p.advance().Lexeme
	}
	catchBody := p.parseScope()
	return &ast.TryCatch{
		Try:        tryBody,
		CatchIdent: catchIdent,
		Catch:      catchBody,
		Loc:        tok.Span.Union(catchBody.Loc),
	}
}

// parseClass parses `class Name (: Parent (, Parent)*)? { ... }`. The
// parent list is recorded but deliberately unused by the evaluator
// (spec.md §9): prototypes here have a single owner, not a linearized MRO.
func (p *Parser) parseClass() ast.StmtNode {
	tok := p.advance() // CLASS
	name := p.consume(lexer.IDENTIFIER, "expected class name").Lexeme

	var parents []string
	if p.check(lexer.COLON) {
		p.advance()
		parents = append(parents, p.consume(lexer.IDENTIFIER, "expected parent class name").Lexeme)
		for p.check(lexer.COMMA) {
			p.advance()
			parents = append(parents, p.consume(lexer.IDENTIFIER, "expected parent class name").Lexeme)
		}
	}

	body := p.parseScope()
	return &ast.Class{Name: name, Parents: parents, Body: body, Loc: tok.Span.Union(body.Loc)}
}

func (p *Parser) parseReturn() ast.StmtNode {
	tok := p.advance() // RETURN
	var value ast.ExprNode
	if !p.check(lexer.SEMI) && !p.check(lexer.RBRACE) && !p.isAtEnd() {
		value = p.parseExpression()
	}
	p.consumeOptionalSemi()
	loc := tok.Span
	if value != nil {
		loc = loc.Union(value.Span())
	}
	return &ast.Return{Value: value, Loc: loc}
}

// --- low-level token cursor helpers ---

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

// peekAt returns the token offset positions ahead of current, clamped to
// the final token (EOF) so lookahead never indexes out of range.
func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind lexer.Kind) bool {
	if p.isAtEnd() {
		return kind == lexer.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...lexer.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind lexer.Kind, message string) lexer.Token {
	if p.check(kind) {
		return p.advance()
	}
	fail(message, p.peek())
	panic("unreachable")
}
