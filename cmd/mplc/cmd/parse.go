package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mini-pl/mplc/pkg/compiler"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse mini-pl source and print the resulting AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	tree, err := compiler.Parse(input)
	if err != nil {
		return err
	}
	fmt.Println(tree.String())
	return nil
}
