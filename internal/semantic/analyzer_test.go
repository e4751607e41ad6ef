package semantic_test

import (
	"testing"

	"github.com/mini-pl/mplc/internal/lexer"
	"github.com/mini-pl/mplc/internal/parser"
	"github.com/mini-pl/mplc/internal/semantic"
	"github.com/mini-pl/mplc/internal/types"
)

func checkSource(t *testing.T, source string) (types.Type, error) {
	t.Helper()
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", source, err)
	}
	expr, err := parser.Parse(tokens, source)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return semantic.Check(expr, source)
}

func TestLiteralTypes(t *testing.T) {
	tests := []struct {
		source string
		want   types.Type
	}{
		{"1", types.Int{}},
		{"true", types.Bool{}},
		{"{ }", types.Unit{}},
	}
	for _, tt := range tests {
		got, err := checkSource(t, tt.source)
		if err != nil {
			t.Fatalf("Check(%q): %v", tt.source, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Check(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestOperatorTyping(t *testing.T) {
	tests := []struct {
		source string
		want   types.Type
	}{
		{"1 + 2", types.Int{}},
		{"1 < 2", types.Bool{}},
		{"true and false", types.Bool{}},
		{"1 == 1", types.Bool{}},
		{"not true", types.Bool{}},
		{"-1", types.Int{}},
	}
	for _, tt := range tests {
		got, err := checkSource(t, tt.source)
		if err != nil {
			t.Fatalf("Check(%q): %v", tt.source, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("Check(%q) = %s, want %s", tt.source, got, tt.want)
		}
	}
}

func TestMistypedOperatorFails(t *testing.T) {
	if _, err := checkSource(t, "1 + true"); err == nil {
		t.Fatal("expected a TypeError for 1 + true")
	}
}

func TestBranchTypeEquality(t *testing.T) {
	if _, err := checkSource(t, "if true then 1 else false"); err == nil {
		t.Fatal("expected a TypeError for mismatched if-branches")
	}
	got, err := checkSource(t, "if true then 1 else 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(types.Int{}) {
		t.Fatalf("expected Int, got %s", got)
	}
}

func TestIfWithoutElseIsUnit(t *testing.T) {
	got, err := checkSource(t, "if true then 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(types.Unit{}) {
		t.Fatalf("expected Unit, got %s", got)
	}
}

func TestVariableDeclarationAndUse(t *testing.T) {
	got, err := checkSource(t, "{ var x = 5; x + 1 }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(types.Int{}) {
		t.Fatalf("expected Int, got %s", got)
	}
}

func TestVariableDeclarationAnnotationMismatch(t *testing.T) {
	if _, err := checkSource(t, "var x : Bool = 1"); err == nil {
		t.Fatal("expected a TypeError for annotation mismatch")
	}
}

func TestUndefinedIdentifierFails(t *testing.T) {
	if _, err := checkSource(t, "x + 1"); err == nil {
		t.Fatal("expected a TypeError for undefined identifier")
	}
}

func TestAssignmentUpdatesBinding(t *testing.T) {
	got, err := checkSource(t, "{ var x = 1; x = 2; x }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(types.Int{}) {
		t.Fatalf("expected Int, got %s", got)
	}
}

func TestBuiltinFunctionCall(t *testing.T) {
	got, err := checkSource(t, "print_int(1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(types.Unit{}) {
		t.Fatalf("expected Unit, got %s", got)
	}
}

func TestFunctionCallArityMismatch(t *testing.T) {
	if _, err := checkSource(t, "print_int(1, 2)"); err == nil {
		t.Fatal("expected a TypeError for arity mismatch")
	}
}

func TestWhileConditionMustBeBool(t *testing.T) {
	if _, err := checkSource(t, "while 1 do 2"); err == nil {
		t.Fatal("expected a TypeError for non-Bool while condition")
	}
}
