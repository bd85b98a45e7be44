package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/scriptpp-lang/scriptpp/internal/cliconfig"
	scripterrors "github.com/scriptpp-lang/scriptpp/internal/lang/errors"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/program"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive scriptpp session",
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

		return runREPL(prog)
	},
}

func runREPL(prog *program.Program) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("scriptpp repl — :help for commands, :exit to quit")
	}

	scanner := bufio.NewScanner(os.Stdin)
	var buf strings.Builder

	for {
		prompt := "scriptpp> "
		if buf.Len() > 0 {
			prompt = "       .. "
		}

		line, ok, err := readLine(interactive, prompt, scanner)
		if !ok {
			if buf.Len() > 0 {
				evalAndPrint(prog, buf.String())
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if buf.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			if handleMeta(prog, trimmed) {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteByte('\n')

		if replBalanced(buf.String()) {
			evalAndPrint(prog, buf.String())
			buf.Reset()
		}
	}
}

func readLine(interactive bool, prompt string, scanner *bufio.Scanner) (string, bool, error) {
	if interactive {
		var line string
		p := &survey.Input{Message: prompt}
		if err := survey.AskOne(p, &line); err != nil {
			return "", false, nil
		}
		return line, true, nil
	}

	if !scanner.Scan() {
		return "", false, scanner.Err()
	}
	return scanner.Text(), true, nil
}

// replBalanced reports whether content's braces/parens/brackets are
// balanced, i.e. it looks like a complete statement rather than a line
// broken off mid-block — the REPL's multi-line paste detection.
func replBalanced(content string) bool {
	tokens, _ := lexer.New(content, "<repl>").ScanTokens()
	depth := 0
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.LBRACE, lexer.LPAREN, lexer.LBRACKET:
			depth++
		case lexer.RBRACE, lexer.RPAREN, lexer.RBRACKET:
			depth--
		}
	}
	return depth <= 0
}

func evalAndPrint(prog *program.Program, source string) {
	if strings.TrimSpace(source) == "" {
		return
	}

	result, err := prog.EvalText(source)
	if err != nil {
		if se, ok := err.(*scripterrors.ScriptError); ok {
			fmt.Print(scripterrors.FormatTerminal(se))
		} else {
			fmt.Println(err)
		}
		return
	}
	if result != nil {
		fmt.Println(result.String())
	}
}

func handleMeta(prog *program.Program, line string) (exit bool) {
	args, err := shellquote.Split(line)
	if err != nil || len(args) == 0 {
		fmt.Println("invalid command")
		return false
	}

	switch args[0] {
	case ":exit", ":quit":
		return true
	case ":help":
		fmt.Println(`commands:
  :load <file.spp>...   import one or more modules into this session
  :exit, :quit          leave the repl
  :help                 show this message`)
	case ":load":
		for _, path := range args[1:] {
			if _, err := prog.Import(path); err != nil {
				if se, ok := err.(*scripterrors.ScriptError); ok {
					fmt.Print(scripterrors.FormatTerminal(se))
				} else {
					fmt.Println(err)
				}
				continue
			}
			fmt.Printf("loaded %s\n", path)
		}
	default:
		fmt.Printf("unknown command %q (try :help)\n", args[0])
	}
	return false
}
