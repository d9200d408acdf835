package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new bibscope project",
	Long: `Initialize a new bibscope project in dir (default: current directory).

Creates:
  bibscope.yml       # Default config with the standard keyword categories
  data/raw/          # Put exported .bib files here
  data/processed/    # Merged bibliography and JSON outputs
  figures/           # HTML renders`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = config.ExpandPath(args[0])
	}
	root, err := filepath.Abs(root)
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}

	if config.IsProject(root) {
		exitWithError(ExitError, "directory already contains a bibscope project")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		exitWithError(ExitError, "creating %s: %v", root, err)
	}

	cfg := config.Default()
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	for _, dir := range []string{cfg.RawPath(), cfg.ProcessedPath(), cfg.FiguresPath()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	if humanOutput {
		outputHuman("Initialized bibscope project in %s\n", root)
		outputHuman("Put exported .bib files in %s\n", cfg.RawPath())
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
