// Package main is the entry point for the labelbridge CLI.
//
// labelbridge can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	labelbridge serve -c config.yaml       # Run the bridge daemon
//	labelbridge validate -c config.yaml    # Validate configuration
//	labelbridge status -c config.yaml      # One-shot printer status query
//	labelbridge print text "hello"         # One-shot print actions
//	labelbridge version                    # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "labelbridge",
	Short: "A bridge between a networked label printer and your automations",
	Long: `labelbridge connects a brother_ql_web label printing service to
automation consumers.

It polls the printer status at a configurable interval, keeps the last
known snapshot, and serves a local HTTP API with print actions plus SSE
and WebSocket streams for live updates.

Quick start:
  1. Create a config file (labelbridge.yaml)
  2. Run: labelbridge serve -c labelbridge.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  printer:
    host: 192.168.1.50
    port: 8013
  poll_interval: 30s`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this labelbridge binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("labelbridge %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
