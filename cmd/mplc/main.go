package main

import (
	"fmt"
	"os"

	"github.com/mini-pl/mplc/cmd/mplc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
