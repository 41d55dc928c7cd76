package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bluecalif/bookforge/internal/api"
	"github.com/bluecalif/bookforge/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

// ParseLogLevel converts a string log level to slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", level)
	}
}

// GetLogLevel returns the configured log level, checking:
// 1. CLI flag (--log-level)
// 2. Environment variable (BOOKFORGE_LOG_LEVEL)
// 3. Default (info)
func GetLogLevel() slog.Level {
	level := logLevel
	if level == "" {
		level = os.Getenv("BOOKFORGE_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	parsed, err := ParseLogLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using info\n", err)
		return slog.LevelInfo
	}
	return parsed
}

var rootCmd = &cobra.Command{
	Use:   "bookforge",
	Short: "Book extraction pipeline with LLM-powered structuring and synthesis",
	Long: `bookforge turns a digitized book PDF into a structured per-chapter and
whole-book report using LLM-powered entity extraction and synthesis.

The pipeline:
  - ingests a source PDF and splits it into normalized pages
  - detects chapter structure, operator-reviewable before it is applied
  - extracts entities and a summary from every body page
  - synthesizes each chapter from its constituent pages
  - aggregates a final book report from every chapter`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: <home>/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bookforge home directory (default: ~/.bookforge)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default: info, env: BOOKFORGE_LOG_LEVEL)",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(structureCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reportCmd)
}
