package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, source string) []Token {
	t.Helper()
	tokens, errs := New(source, "<test>").ScanTokens()
	require.Empty(t, errs, "unexpected lex errors: %v", errs)
	return tokens
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == EOF {
			continue
		}
		out = append(out, tok.Kind)
	}
	return out
}

func TestScanTokens_Punctuation(t *testing.T) {
	tokens := scan(t, "{}()[],.:;->")
	assert.Equal(t, []Kind{LBRACE, RBRACE, LPAREN, RPAREN, LBRACKET, RBRACKET, COMMA, DOT, COLON, SEMI, ARROW}, kinds(tokens))
}

func TestScanTokens_Operators(t *testing.T) {
	tokens := scan(t, "= == != < <= > >= + - * / % && || !")
	assert.Equal(t, []Kind{ASSIGN, EQ, NEQ, LT, LTE, GT, GTE, PLUS, MINUS, STAR, SLASH, PERCENT, AND, OR, BANG}, kinds(tokens))
}

func TestScanTokens_CompoundAssignStaysTwoTokens(t *testing.T) {
	// += is not a recognized lexeme (spec.md §4.2); the parser desugars it
	// from PLUS ASSIGN, so the lexer must never fuse them.
	tokens := scan(t, "x += 1")
	assert.Equal(t, []Kind{IDENTIFIER, PLUS, ASSIGN, NUMBER}, kinds(tokens))
}

func TestScanTokens_Keywords(t *testing.T) {
	tokens := scan(t, "let fn when for while class return break continue try catch throw null true false")
	assert.Equal(t, []Kind{LET, FN, WHEN, FOR, WHILE, CLASS, RETURN, BREAK, CONTINUE, TRY, CATCH, THROW, NULL, TRUE, FALSE}, kinds(tokens))
}

func TestScanTokens_ElseIsNotAKeyword(t *testing.T) {
	tokens := scan(t, "else")
	require.Len(t, tokens, 2)
	assert.Equal(t, IDENTIFIER, tokens[0].Kind)
	assert.Equal(t, "else", tokens[0].Lexeme)
}

func TestScanTokens_Identifiers(t *testing.T) {
	tokens := scan(t, "foo _bar baz123")
	require.Len(t, kinds(tokens), 3)
	for _, tok := range tokens[:3] {
		assert.Equal(t, IDENTIFIER, tok.Kind)
	}
}

func TestScanTokens_Numbers(t *testing.T) {
	tokens := scan(t, "42 3.14 1e10 2.5e-3 .5")
	require.Len(t, tokens, 6)
	expect := []interface{}{int64(42), 3.14, 1e10, 2.5e-3, 0.5}
	for i, want := range expect {
		assert.Equal(t, NUMBER, tokens[i].Kind)
		assert.InDelta(t, want, tokens[i].Literal, 1e-9)
	}
}

func TestScanTokens_StringEscapes(t *testing.T) {
	tokens := scan(t, `"hello\nworld" 'it''s'`)
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, "hello\nworld", tokens[0].Literal)
}

func TestScanTokens_Comments(t *testing.T) {
	tokens := scan(t, "1 // trailing comment\n/* block\ncomment */ 2")
	assert.Equal(t, []Kind{NUMBER, NUMBER}, kinds(tokens))
}

func TestScanTokens_UnterminatedStringReportsSpan(t *testing.T) {
	_, errs := New(`"oops`, "<test>").ScanTokens()
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Span.StartLine)
	assert.Equal(t, 1, errs[0].Span.StartCol)
}

func TestScanTokens_UnterminatedBlockComment(t *testing.T) {
	_, errs := New("/* never closes", "<test>").ScanTokens()
	require.Len(t, errs, 1)
}

func TestScanTokens_SpanTracksLineAndColumn(t *testing.T) {
	tokens := scan(t, "let\n  x")
	require.Len(t, tokens, 2)
	assert.Equal(t, 1, tokens[0].Span.StartLine)
	assert.Equal(t, 2, tokens[1].Span.StartLine)
	assert.Equal(t, 3, tokens[1].Span.StartCol)
}

func TestScanTokens_MultiCharOperatorsAreGreedy(t *testing.T) {
	tokens := scan(t, "a<=b")
	assert.Equal(t, []Kind{IDENTIFIER, LTE, IDENTIFIER}, kinds(tokens))
}

func TestScanTokens_SingleAmpersandIsAnError(t *testing.T) {
	_, errs := New("a & b", "<test>").ScanTokens()
	require.Len(t, errs, 1)
}
