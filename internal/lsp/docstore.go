package lsp

import (
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/parser"
)

// documentStore tracks every open document's most recent text and
// diagnostics, replacing the compiled-language tooling API this server
// used to wrap: diagnostics here come from a bare lex+parse (spec.md
// §4.1/§4.2), not a type-checker, since this language has none.
type documentStore struct {
	documents map[string]*document
}

type document struct {
	uri         string
	content     string
	version     int
	diagnostics []scripterrors.ScriptError
}

func newDocumentStore() *documentStore {
	return &documentStore{documents: make(map[string]*document)}
}

// Open lexes and parses content, recording the resulting diagnostics
// (lex errors, at most one parse error per spec.md §4.2's fail-fast
// parser) against uri.
func (s *documentStore) Open(uri, content string, version int) *document {
	doc := &document{uri: uri, content: content, version: version}
	doc.diagnostics = diagnose(content, uri)
	s.documents[uri] = doc
	return doc
}

// Update re-lexes/re-parses content against an already-open uri,
// creating the document if didOpen was somehow missed.
func (s *documentStore) Update(uri, content string, version int) *document {
	doc, ok := s.documents[uri]
	if !ok {
		return s.Open(uri, content, version)
	}
	doc.content = content
	doc.version = version
	doc.diagnostics = diagnose(content, uri)
	return doc
}

func (s *documentStore) Close(uri string) {
	delete(s.documents, uri)
}

func (s *documentStore) Get(uri string) (*document, bool) {
	doc, ok := s.documents[uri]
	return doc, ok
}

func (s *documentStore) Diagnostics(uri string) []scripterrors.ScriptError {
	doc, ok := s.documents[uri]
	if !ok {
		return nil
	}
	return doc.diagnostics
}

func diagnose(content, uri string) []scripterrors.ScriptError {
	var out []scripterrors.ScriptError

	lx := lexer.New(content, uri)
	tokens, lexErrs := lx.ScanTokens()
	for _, e := range lexErrs {
		out = append(out, *scripterrors.NewLexError(e.Message, e.Span))
	}
	if len(lexErrs) > 0 {
		return out
	}

	if _, err := parser.New(tokens).Parse(); err != nil {
		if pe, ok := err.(*parser.Error); ok {
			out = append(out, *scripterrors.NewParseError(pe.Message, pe.Span))
		}
	}
	return out
}
