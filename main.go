package main

import (
	"os"

	"github.com/mozilla-ai/mcpcheck/cmd"
)

func main() {
	// Cobra has already printed the error.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
