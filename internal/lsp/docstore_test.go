package lsp

import (
	"testing"

	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
)

func TestDocumentStore_OpenRecordsDiagnosticsForBadSyntax(t *testing.T) {
	s := newDocumentStore()
	doc := s.Open("file:///bad.spp", "let x = ;", 1)

	if len(doc.diagnostics) == 0 {
		t.Fatal("expected a diagnostic for malformed syntax")
	}
	if doc.diagnostics[0].Category != scripterrors.Parse {
		t.Errorf("expected a parse error, got category %v", doc.diagnostics[0].Category)
	}
}

func TestDocumentStore_OpenIsCleanForValidSource(t *testing.T) {
	s := newDocumentStore()
	doc := s.Open("file:///ok.spp", "let x = 1;", 1)

	if len(doc.diagnostics) != 0 {
		t.Errorf("expected no diagnostics for valid source, got %v", doc.diagnostics)
	}
}

func TestDocumentStore_UpdateReplacesDiagnostics(t *testing.T) {
	s := newDocumentStore()
	s.Open("file:///x.spp", "let x = ;", 1)

	s.Update("file:///x.spp", "let x = 1;", 2)

	if diags := s.Diagnostics("file:///x.spp"); len(diags) != 0 {
		t.Errorf("expected diagnostics cleared after fixing the syntax error, got %v", diags)
	}
}

func TestDocumentStore_CloseForgetsDocument(t *testing.T) {
	s := newDocumentStore()
	s.Open("file:///x.spp", "let x = 1;", 1)
	s.Close("file:///x.spp")

	if _, ok := s.Get("file:///x.spp"); ok {
		t.Error("expected document to be forgotten after Close")
	}
}

func TestDocumentStore_UpdateWithoutOpenCreatesDocument(t *testing.T) {
	s := newDocumentStore()
	doc := s.Update("file:///never-opened.spp", "let x = 1;", 1)

	if doc == nil {
		t.Fatal("expected Update to create a missing document")
	}
	if _, ok := s.Get("file:///never-opened.spp"); !ok {
		t.Error("expected the document to now be tracked")
	}
}
