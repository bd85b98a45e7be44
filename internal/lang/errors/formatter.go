package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/segmentio/encoding/json"
)

var (
	categoryColor = map[Category]*color.Color{
		Lex:      color.New(color.FgMagenta, color.Bold),
		Parse:    color.New(color.FgRed, color.Bold),
		Name:     color.New(color.FgYellow, color.Bold),
		Type:     color.New(color.FgYellow, color.Bold),
		Argument: color.New(color.FgYellow, color.Bold),
		Runtime:  color.New(color.FgRed, color.Bold),
		User:     color.New(color.FgCyan, color.Bold),
	}
	suggestionColor = color.New(color.FgGreen)
	locationColor   = color.New(color.Faint)
)

func categoryLabel(c Category) string {
	switch c {
	case Lex:
		return "LexError"
	case Parse:
		return "ParseError"
	case Name:
		return "NameError"
	case Type:
		return "TypeError"
	case Argument:
		return "ArgumentError"
	case Runtime:
		return "RuntimeError"
	case User:
		return "UserError"
	default:
		return "Error"
	}
}

// FormatTerminal renders e for an interactive terminal: a colored category
// label, the source span, the message, an optional stack trace, and an
// optional suggestion.
func FormatTerminal(e *ScriptError) string {
	var b strings.Builder

	label := categoryColor[e.Category]
	if label == nil {
		label = color.New(color.FgRed)
	}
	fmt.Fprintf(&b, "%s: %s\n", label.Sprint(categoryLabel(e.Category)), e.Message)
	fmt.Fprintf(&b, "  %s\n", locationColor.Sprint(e.Span.String()))

	for _, frame := range e.Stack {
		fmt.Fprintf(&b, "    at %s\n", frame)
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n", suggestionColor.Sprint("hint:"), e.Suggestion)
	}

	return b.String()
}

// FormatJSON renders e as an indented JSON document for non-interactive
// consumers (the `run`/`eval` subcommands' JSON error output, CI log
// capture).
func FormatJSON(e *ScriptError) (string, error) {
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FormatCompact renders a single-line "span: Category: message" form, used
// by ScriptError.Error() and by tests.
func FormatCompact(e *ScriptError) string {
	return fmt.Sprintf("%s: %s: %s", e.Span, categoryLabel(e.Category), e.Message)
}
