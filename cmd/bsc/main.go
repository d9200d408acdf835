// Package main provides the bsc CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/matsen/bibscope/internal/config"
	"github.com/matsen/bibscope/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so Cobra errors (like unknown flags) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bsc",
	Short: "Bibliometric analysis of BibTeX exports",
	Long: `bsc merges BibTeX exports from several databases and analyzes them.

Stages:
  merge      Combine raw .bib files and remove duplicates by DOI or title
  stats      Author, journal, publisher, type, and year statistics
  keywords   Keyword frequencies and co-occurrence graphs per category
  similar    Pairwise abstract similarity (jaccard or tfidf)
  run        All of the above in order

Configuration lives in bibscope.yml at the project root.
All commands output JSON by default; logs go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, disabled)")
	rootCmd.Version = Version
}

// mustLoadGlobalConfig loads the global config, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	return global
}

// mustFindProject locates the project root, exits on error.
func mustFindProject(global *config.GlobalConfig) string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.ResolveProject(cwd, global)
	if err != nil {
		if errors.Is(err, config.ErrProjectNotFound) {
			exitWithError(ExitConfigError, "%v\n\nRun 'bsc init' to create a project here, or set %s.", err, config.RootEnv)
		}
		exitWithError(ExitConfigError, "finding project: %v", err)
	}
	return root
}

// mustLoadConfig loads the project configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustSetupBase resolves the project and returns its config and a logger.
func mustSetupBase() (*config.Config, zerolog.Logger) {
	global := mustLoadGlobalConfig()
	cfg := mustLoadConfig(mustFindProject(global))
	log := logging.New(os.Stderr, resolveLogLevel(logLevel, global), humanOutput)
	return cfg, logging.WithRun(log)
}

// mustSetup is mustSetupBase with the logger tagged for one stage.
func mustSetup(stage string) (*config.Config, zerolog.Logger) {
	cfg, log := mustSetupBase()
	return cfg, logging.WithStage(log, stage)
}

// resolveLogLevel picks the log level from the flag, then the environment,
// then the global config.
func resolveLogLevel(flag string, global *config.GlobalConfig) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(logging.LevelEnv); env != "" {
		return env
	}
	if global != nil && global.LogLevel != "" {
		return global.LogLevel
	}
	return logging.DefaultLevel
}
