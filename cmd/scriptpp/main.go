// Command scriptpp is the CLI for the scriptpp interpreter: run/eval a
// script, drop into a REPL, or serve its language server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/plugins/cachekv"
	"github.com/scriptpp-lang/scriptpp/internal/plugins/crypto"
	"github.com/scriptpp-lang/scriptpp/internal/plugins/db"
	"github.com/scriptpp-lang/scriptpp/internal/plugins/httpsrv"

	scriptppprogram "github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func newLogger(verbose bool) *zap.Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// registerPlugins wires the standard plugin set onto a freshly constructed
// Program, reading each plugin's connection string from cliconfig.
func registerPlugins(prog *scriptppprogram.Program, logger *zap.Logger, dbDSN, cacheAddr string) {
	prog.RegisterPlugin("crypto", crypto.New(logger.Named("crypto")))
	prog.RegisterPlugin("http", httpsrv.New(logger.Named("http")))

	dbPlugin, err := db.New(logger.Named("db"), dbDSN)
	if err != nil {
		logger.Warn("db plugin unavailable", zap.Error(err))
	} else {
		prog.RegisterPlugin("db", dbPlugin)
	}

	cachePlugin, err := cachekv.New(logger.Named("cache"), cacheAddr)
	if err != nil {
		logger.Warn("cache plugin unavailable", zap.Error(err))
	} else {
		prog.RegisterPlugin("cache", cachePlugin)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "scriptpp",
		Short: "scriptpp interpreter and tooling",
		Long: `scriptpp is a dynamically-typed, tree-walking embedded scripting
language with C-family syntax and closures over references.`,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(lspCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
