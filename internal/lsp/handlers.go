package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
)

// spanToRange converts a scriptpp lexer.Span (1-based line/col, exclusive
// end) into an LSP protocol.Range (0-based line/col, exclusive end).
func spanToRange(span lexer.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max0(span.StartLine - 1)),
			Character: uint32(max0(span.StartCol - 1)),
		},
		End: protocol.Position{
			Line:      uint32(max0(span.EndLine - 1)),
			Character: uint32(max0(span.EndCol - 1)),
		},
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// tokenAtPosition re-lexes content and returns the token whose span covers
// the given 0-based LSP line/character, if any.
func tokenAtPosition(content, file string, line, character int) (lexer.Token, bool) {
	tokens, _ := lexer.New(content, file).ScanTokens()

	wantLine := line + 1
	wantCol := character + 1

	for _, tok := range tokens {
		if tok.Kind == lexer.EOF {
			continue
		}
		if wantLine < tok.Span.StartLine || wantLine > tok.Span.EndLine {
			continue
		}
		if tok.Span.StartLine == tok.Span.EndLine {
			if wantCol >= tok.Span.StartCol && wantCol < tok.Span.EndCol {
				return tok, true
			}
			continue
		}
		return tok, true
	}
	return lexer.Token{}, false
}

// handleTextDocumentHover reports the kind and lexeme of the token under
// the cursor. There is no type system to describe, so hover is a thin
// lexical aid rather than a semantic one.
func (s *Server) handleTextDocumentHover(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.HoverParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return s.replyWithError(ctx, reply, jsonrpc2.InvalidParams, "Failed to parse hover params")
	}

	docURI := string(params.TextDocument.URI)
	doc, ok := s.docs.Get(docURI)
	if !ok {
		return reply(ctx, nil, nil)
	}

	tok, ok := tokenAtPosition(doc.content, docURI, int(params.Position.Line), int(params.Position.Character))
	if !ok || tok.Kind == lexer.ERROR {
		return reply(ctx, nil, nil)
	}

	var value string
	if tok.Literal != nil {
		value = fmt.Sprintf("**%s** `%s` = `%v`", tok.Kind, tok.Lexeme, tok.Literal)
	} else {
		value = fmt.Sprintf("**%s** `%s`", tok.Kind, tok.Lexeme)
	}

	result := protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: value,
		},
		Range: ptrRange(spanToRange(tok.Span)),
	}

	return reply(ctx, result, nil)
}

func ptrRange(r protocol.Range) *protocol.Range {
	return &r
}
