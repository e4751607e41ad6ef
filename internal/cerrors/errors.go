// Package cerrors defines the located, typed errors produced by every
// stage of the compiler, plus source-context formatting for them.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/mini-pl/mplc/internal/token"
)

// Kind distinguishes which compiler stage raised an error.
type Kind int

const (
	// Lex is an unrecognised byte in the source.
	Lex Kind = iota
	// Parse is a grammar violation: wrong token, missing delimiter,
	// misuse of var, trailing input.
	Parse
	// Type is a type-checking failure.
	Type
	// IR is an internal lowering failure (an AST variant IR generation
	// does not know how to handle reached it).
	IR
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "LexError"
	case Parse:
		return "ParseError"
	case Type:
		return "TypeError"
	case IR:
		return "IRError"
	default:
		return "Error"
	}
}

// CompilerError is a single, fatal compilation error. The compiler reports
// the first one encountered and stops; there is no recovery or error
// collection mode.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string // full source text, for context rendering; may be empty
}

// New creates a CompilerError of the given kind at pos.
func New(kind Kind, pos token.Position, format string, args ...any) *CompilerError {
	return &CompilerError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// WithSource attaches source text to an error so Format can render a
// caret-annotated context line.
func (e *CompilerError) WithSource(source string) *CompilerError {
	e.Source = source
	return e
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a "Kind at row:col: message" header,
// followed by the offending source line and a caret pointing at the
// column, when source text is available. If color is true, the caret is
// wrapped in ANSI red/bold escapes.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s at %s: %s\n", e.Kind, e.Pos, e.Message)

	line := e.sourceLine(e.Pos.Row)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	lineNumPrefix := fmt.Sprintf("%4d | ", e.Pos.Row)
	sb.WriteString(lineNumPrefix)
	sb.WriteString(line)
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", len(lineNumPrefix)+max(e.Pos.Col-1, 0)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(row int) string {
	if e.Source == "" || row < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if row > len(lines) {
		return ""
	}
	return lines[row-1]
}
