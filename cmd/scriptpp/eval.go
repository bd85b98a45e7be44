package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scriptpp-lang/scriptpp/internal/cliconfig"
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

var evalJSON bool

func init() {
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "Report the uncaught error (if any) as JSON instead of colored text")
}

var evalCmd = &cobra.Command{
	Use:   "eval <source>",
	Short: "Evaluate a scriptpp expression or statement list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cliconfig.Load()
		if err != nil {
			return fmt.Errorf("loading scriptpp.yml: %w", err)
		}

		logger := newLogger(false)
		defer logger.Sync()

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		prog := program.New(logger, cwd, program.WithCacheCapacity(cfg.ModuleCache.Capacity))
		registerPlugins(prog, logger, cfg.Plugins.DB.DSN, cfg.Plugins.Cache.Addr)

		result, err := prog.EvalText(args[0])
		if err != nil {
			if se, ok := err.(*scripterrors.ScriptError); ok {
				if evalJSON {
					if out, jerr := scripterrors.FormatJSON(se); jerr == nil {
						fmt.Fprintln(os.Stderr, out)
						os.Exit(1)
					}
				}
				fmt.Fprint(os.Stderr, scripterrors.FormatTerminal(se))
				os.Exit(1)
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if result != nil {
			fmt.Println(result.String())
		}
		return nil
	},
}
