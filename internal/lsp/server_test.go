package lsp

import (
	"testing"

	"go.lsp.dev/protocol"

	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
)

func TestServerInitialization(t *testing.T) {
	server := NewServer()
	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	if server.docs == nil {
		t.Error("Server document store is nil")
	}

	if server.logger == nil {
		t.Error("Server logger is nil")
	}

	caps := server.capabilities
	if caps.HoverProvider != true {
		t.Error("HoverProvider should be true")
	}

	if caps.TextDocumentSync == nil {
		t.Error("TextDocumentSync should be set")
	}
}

func TestConvertSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    scripterrors.Severity
		expected protocol.DiagnosticSeverity
	}{
		{"Error severity", scripterrors.SeverityError, protocol.DiagnosticSeverityError},
		{"Warning severity", scripterrors.SeverityWarning, protocol.DiagnosticSeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertSeverity(tt.input)
			if result != tt.expected {
				t.Errorf("convertSeverity(%v): expected %v, got %v", tt.input, tt.expected, result)
			}
		})
	}
}

func TestStdRWC(t *testing.T) {
	rwc := stdrwc{}
	_ = rwc.Read
	_ = rwc.Write
	_ = rwc.Close
}
