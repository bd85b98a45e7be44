package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptpp-lang/scriptpp/internal/cliconfig"
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
	"github.com/scriptpp-lang/scriptpp/internal/watch"
)

var (
	runWatch   bool
	runJSON    bool
	runVerbose bool
)

func init() {
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run on source change")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Report the uncaught error (if any) as JSON instead of colored text")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Enable debug-level logging")
}

var runCmd = &cobra.Command{
	Use:   "run <script.spp>",
	Short: "Run a scriptpp script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptPath, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("loading scriptpp.yml: %w", err)
		}

		logger := newLogger(runVerbose)
		defer logger.Sync()

		if !runWatch {
			_, err := runOnce(scriptPath, cfg, logger)
			if err != nil {
				reportRunError(err, runJSON)
				os.Exit(1)
			}
			return nil
		}

		return runWatched(scriptPath, cfg, logger)
	},
}

func newRunProgram(scriptPath string, cfg *cliconfig.Config, logger *zap.Logger) *program.Program {
	opts := []program.Option{
		program.WithCacheCapacity(cfg.ModuleCache.Capacity),
	}
	prog := program.New(logger, filepath.Dir(scriptPath), opts...)
	registerPlugins(prog, logger, cfg.Plugins.DB.DSN, cfg.Plugins.Cache.Addr)
	return prog
}

func runOnce(scriptPath string, cfg *cliconfig.Config, logger *zap.Logger) (*program.Program, error) {
	prog := newRunProgram(scriptPath, cfg, logger)
	if _, err := prog.Import(scriptPath); err != nil {
		return prog, err
	}
	return prog, nil
}

func reportRunError(err error, asJSON bool) {
	se, ok := err.(*scripterrors.ScriptError)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if asJSON {
		out, jerr := scripterrors.FormatJSON(se)
		if jerr != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Fprintln(os.Stderr, out)
		return
	}
	fmt.Fprint(os.Stderr, scripterrors.FormatTerminal(se))
}

func runWatched(scriptPath string, cfg *cliconfig.Config, logger *zap.Logger) error {
	changeCh := make(chan struct{}, 1)

	fw, err := watch.NewFileWatcher(
		[]string{filepath.Dir(scriptPath)},
		watch.DefaultPatterns,
		[]string{"*.swp", "*.swo", "*~"},
		func(files []string) error {
			select {
			case changeCh <- struct{}{}:
			default:
			}
			return nil
		},
	)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Stop()

	if err := fw.Start(); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	runAndTrack := func() {
		fmt.Printf("\n▶ running %s\n", filepath.Base(scriptPath))
		prog, err := runOnce(scriptPath, cfg, logger)
		if err != nil {
			reportRunError(err, false)
		}
		if prog != nil {
			if werr := fw.WatchPaths(prog.ImportedSourcePaths()); werr != nil {
				logger.Warn("failed to watch an imported module's directory", zap.Error(werr))
			}
		}
	}

	runAndTrack()

	for {
		select {
		case <-changeCh:
			runAndTrack()
		case <-sigCh:
			fmt.Println("\nstopping watch")
			return nil
		}
	}
}
