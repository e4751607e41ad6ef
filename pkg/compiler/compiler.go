// Package compiler exposes the single public entry point for turning
// mini-pl source text into x86-64 assembly text, wiring together the
// tokenizer, parser, type checker, IR generator, and assembly emitter in
// sequence.
package compiler

import (
	"github.com/mini-pl/mplc/internal/ast"
	"github.com/mini-pl/mplc/internal/codegen"
	"github.com/mini-pl/mplc/internal/ir"
	"github.com/mini-pl/mplc/internal/irgen"
	"github.com/mini-pl/mplc/internal/lexer"
	"github.com/mini-pl/mplc/internal/parser"
	"github.com/mini-pl/mplc/internal/semantic"
	"github.com/mini-pl/mplc/internal/token"
	"github.com/mini-pl/mplc/internal/types"
)

// Compile runs the full pipeline over source and returns the resulting
// assembly text. It stops at the first error encountered in any phase;
// there is no partial output and no recovery.
func Compile(source string) (string, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return "", err
	}

	tree, err := parser.Parse(tokens, source)
	if err != nil {
		return "", err
	}

	if _, err := semantic.Check(tree, source); err != nil {
		return "", err
	}

	instructions, err := irgen.Generate(tree, semantic.ReservedNames(), source)
	if err != nil {
		return "", err
	}

	return codegen.Generate(instructions), nil
}

// Tokenize runs the tokenizer phase alone.
func Tokenize(source string) ([]token.Token, error) {
	return lexer.Tokenize(source)
}

// Parse runs the tokenizer and parser phases, returning the resulting
// expression tree.
func Parse(source string) (ast.Expression, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens, source)
}

// TypeCheck runs the tokenizer, parser, and type checker phases and
// returns the program's inferred root type.
func TypeCheck(source string) (types.Type, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	expr, err := parser.Parse(tokens, source)
	if err != nil {
		return nil, err
	}
	return semantic.Check(expr, source)
}

// GenerateIR runs every phase up to and including IR generation, for
// callers that want to inspect the lowered instruction list directly.
func GenerateIR(source string) ([]ir.Instruction, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	expr, err := parser.Parse(tokens, source)
	if err != nil {
		return nil, err
	}
	if _, err := semantic.Check(expr, source); err != nil {
		return nil, err
	}
	return irgen.Generate(expr, semantic.ReservedNames(), source)
}
