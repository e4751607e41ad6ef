package cmd

import (
	"os"
	"testing"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"lex": false, "parse": false, "typecheck": false, "compile": false}
	for _, c := range rootCmd.Commands() {
		name := c.Name()
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestReadInputPrefersInlineExpression(t *testing.T) {
	evalExpr = "1 + 2"
	defer func() { evalExpr = "" }()

	got, err := readInput(nil)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if got != "1 + 2" {
		t.Errorf("readInput() = %q, want %q", got, "1 + 2")
	}
}

func TestReadInputRequiresSourceOrFlag(t *testing.T) {
	evalExpr = ""
	if _, err := readInput(nil); err == nil {
		t.Fatal("expected an error when neither a file nor -e is given")
	}
}

func TestReadInputFromFile(t *testing.T) {
	evalExpr = ""
	dir := t.TempDir()
	path := dir + "/source.mpl"
	if err := os.WriteFile(path, []byte("1 + 2"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	got, err := readInput([]string{path})
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if got != "1 + 2" {
		t.Errorf("readInput() = %q, want %q", got, "1 + 2")
	}
}
