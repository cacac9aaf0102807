//go:build docsgen_cli

package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra/doc"

	"github.com/mozilla-ai/mcpcheck/cmd"
	internalcmd "github.com/mozilla-ai/mcpcheck/internal/cmd"
	"github.com/mozilla-ai/mcpcheck/internal/files"
)

// docsPath is where the command reference is written, relative to the repository root.
const docsPath = "./docs/commands/"

// main regenerates the markdown reference for every mcpcheck command.
// It must be run from the repository root.
func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mcpcheck.docsgen",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	if err := run(logger); err != nil {
		logger.Error("CLI docs generation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("CLI docs generated", "path", docsPath)
}

func run(logger hclog.Logger) error {
	base := &internalcmd.BaseCmd{}
	base.SetLogger(logger)

	rootCmd, err := cmd.NewRootCmd(base)
	if err != nil {
		return err
	}
	rootCmd.DisableAutoGenTag = true

	if err := os.RemoveAll(docsPath); err != nil {
		return err
	}
	if err := files.EnsureAtLeastRegularDir(docsPath); err != nil {
		return err
	}

	return doc.GenMarkdownTree(rootCmd, docsPath)
}
