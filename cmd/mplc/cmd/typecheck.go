package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mini-pl/mplc/pkg/compiler"
)

var typecheckCmd = &cobra.Command{
	Use:   "typecheck [file]",
	Short: "Type-check mini-pl source and print the inferred root type",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTypecheck,
}

func init() {
	rootCmd.AddCommand(typecheckCmd)
}

func runTypecheck(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	t, err := compiler.TypeCheck(input)
	if err != nil {
		return err
	}
	fmt.Println(t.String())
	return nil
}
