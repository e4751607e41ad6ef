package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mini-pl/mplc/pkg/compiler"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize mini-pl source and print the resulting tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	tokens, err := compiler.Tokenize(input)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		fmt.Printf("[%s] %q @%s\n", tok.Kind, tok.Text, tok.Pos)
	}
	return nil
}
