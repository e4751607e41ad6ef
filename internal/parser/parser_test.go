package parser

import (
	"testing"

	"github.com/mini-pl/mplc/internal/ast"
	"github.com/mini-pl/mplc/internal/lexer"
)

func mustParse(t *testing.T, source string) ast.Expression {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", source, err)
	}
	expr, err := Parse(tokens, source)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return expr
}

func TestParsePrecedence(t *testing.T) {
	expr := mustParse(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok {
		t.Fatalf("expected top-level BinaryOp, got %T", expr)
	}
	if bin.Op != "+" {
		t.Fatalf("expected top-level op '+', got %q", bin.Op)
	}
	right, ok := bin.Right.(*ast.BinaryOp)
	if !ok || right.Op != "*" {
		t.Fatalf("expected right side to be '*', got %#v", bin.Right)
	}
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	expr := mustParse(t, "{ var x = 1; var y = 2; x = y = 3 }")
	block := expr.(*ast.Block)
	assign := block.ResultExpression.(*ast.BinaryOp)
	if assign.Op != "=" {
		t.Fatalf("expected '=' at top, got %q", assign.Op)
	}
	if _, ok := assign.Right.(*ast.BinaryOp); !ok {
		t.Fatalf("expected right-associative '=', right was %T", assign.Right)
	}
}

func TestParseIfWithoutElse(t *testing.T) {
	expr := mustParse(t, "if 1 < 2 then 3")
	ifs := expr.(*ast.IfStatement)
	if ifs.ThirdExpr != nil {
		t.Fatalf("expected no else branch, got %#v", ifs.ThirdExpr)
	}
}

func TestParseIfWithElse(t *testing.T) {
	expr := mustParse(t, "if 1 < 2 then 3 else 4")
	ifs := expr.(*ast.IfStatement)
	if ifs.ThirdExpr == nil {
		t.Fatal("expected an else branch")
	}
}

func TestParseBlockTrailingSemicolonYieldsUnit(t *testing.T) {
	expr := mustParse(t, "{ 1; 2; }")
	block := expr.(*ast.Block)
	if !block.HasSemicolon {
		t.Fatal("expected HasSemicolon to be true")
	}
	lit, ok := block.ResultExpression.(*ast.Literal)
	if !ok || lit.Value != nil {
		t.Fatalf("expected Unit result expression, got %#v", block.ResultExpression)
	}
}

func TestParseBlockNoTrailingSemicolon(t *testing.T) {
	expr := mustParse(t, "{ 1; 2 }")
	block := expr.(*ast.Block)
	if block.HasSemicolon {
		t.Fatal("expected HasSemicolon to be false")
	}
	lit, ok := block.ResultExpression.(*ast.Literal)
	if !ok || lit.Value.(int64) != 2 {
		t.Fatalf("expected result expression 2, got %#v", block.ResultExpression)
	}
}

func TestParseEmptyBlock(t *testing.T) {
	expr := mustParse(t, "{ }")
	block := expr.(*ast.Block)
	if len(block.Expressions) != 0 {
		t.Fatalf("expected an empty block, got %d expressions", len(block.Expressions))
	}
}

func TestParseFunctionCall(t *testing.T) {
	expr := mustParse(t, "print_int(1 + 2)")
	call := expr.(*ast.FunctionCall)
	if call.FunctionName.Name != "print_int" {
		t.Fatalf("expected function name print_int, got %q", call.FunctionName.Name)
	}
	if len(call.Arguments) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Arguments))
	}
}

func TestParseVarWithFunctionType(t *testing.T) {
	expr := mustParse(t, "{ var f : (Int, Int) => Int = f }")
	block := expr.(*ast.Block)
	decl := block.Expressions[0].(*ast.VariableDeclaration)
	if decl.VarType == nil {
		t.Fatal("expected a declared type")
	}
}

func TestParseEmptyInput(t *testing.T) {
	expr := mustParse(t, "")
	if _, ok := expr.(*ast.EmptyInput); !ok {
		t.Fatalf("expected EmptyInput, got %T", expr)
	}
}

func TestParseVarOutsideBlockFails(t *testing.T) {
	tokens, err := lexer.Tokenize("1 + var x = 2")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if _, err := Parse(tokens, ""); err == nil {
		t.Fatal("expected a ParseError for var outside block/top-level")
	}
}

func TestParseMissingSemicolonInBlockFails(t *testing.T) {
	tokens, err := lexer.Tokenize("{ a b }")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if _, err := Parse(tokens, ""); err == nil {
		t.Fatal("expected a ParseError for missing ';' in block")
	}
}

func TestParseOperatorInAtomPositionFails(t *testing.T) {
	tokens, err := lexer.Tokenize("a + * b")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if _, err := Parse(tokens, ""); err == nil {
		t.Fatal("expected a ParseError for operator in atom position")
	}
}

func TestParseTrailingTokensFails(t *testing.T) {
	tokens, err := lexer.Tokenize("a + b c")
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if _, err := Parse(tokens, ""); err == nil {
		t.Fatal("expected a ParseError for trailing input")
	}
}

func TestParseIsDeterministic(t *testing.T) {
	source := "{ var x = 1; if x < 2 then x + 1 else x - 1 }"
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	first, err := Parse(tokens, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	second, err := Parse(tokens, source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("parse is not deterministic: %q vs %q", first.String(), second.String())
	}
}
