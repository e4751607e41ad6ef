package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
)

var rootCmd = &cobra.Command{
	Use:   "mplc",
	Short: "mini-pl compiler",
	Long: `mplc compiles mini-pl, a small expression-oriented language, down to
x86-64 assembly text.

The pipeline is source text -> tokens -> AST -> typed AST -> linear IR ->
assembly, exposed here as the lex, parse, typecheck, and compile
subcommands.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&evalExpr, "eval", "e", "", "use inline source instead of reading from a file")
}

var evalExpr string

func readInput(args []string) (string, error) {
	if evalExpr != "" {
		return evalExpr, nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), nil
	}
	return "", fmt.Errorf("provide a source file or use -e for inline source")
}
