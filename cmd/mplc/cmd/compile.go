package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mini-pl/mplc/pkg/compiler"
)

var compileOutput string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile mini-pl source to x86-64 assembly text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "write assembly to this file instead of stdout")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	asm, err := compiler.Compile(input)
	if err != nil {
		return err
	}

	if compileOutput == "" {
		fmt.Print(asm)
		return nil
	}
	return os.WriteFile(compileOutput, []byte(asm), 0o644)
}
