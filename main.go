package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-core/internal/command"
)

// main - is the entry point of the application. Subcommands live in internal/command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := command.Root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
