package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/scriptpp-lang/scriptpp/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the scriptpp language server",
	Long:  "Start a Language Server Protocol server over stdin/stdout for editor integration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		server := lsp.NewServer()
		return server.Run(context.Background())
	},
}
