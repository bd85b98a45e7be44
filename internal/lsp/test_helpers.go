package lsp

// This file documents a testing limitation: jsonrpc2.Request carries
// unexported fields, so the dispatch handlers can't be invoked directly
// from a unit test without a live connection. Diagnostic and hover logic
// are instead unit-tested through documentStore/diagnose and
// tokenAtPosition/spanToRange directly; end-to-end coverage needs a real
// LSP client talking over stdio.
