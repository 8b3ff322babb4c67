package main

// Main entry point of the application
// Executes Cobra commands and maps errors to a non-zero exit code

import (
	"fmt"
	"os"

	"base-wallet-bot/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
