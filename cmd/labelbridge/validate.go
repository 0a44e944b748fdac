package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/labelbridge/labelbridge/config"
)

// validateCmd validates a config file without starting the daemon.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a labelbridge configuration file without starting the daemon.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  labelbridge validate -c config.yaml
  labelbridge validate --config /etc/labelbridge/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Printer:       http://%s:%d\n", cfg.Printer.Host, cfg.Printer.Port)
	fmt.Printf("  Listen port:   %d\n", cfg.ListenPort)
	fmt.Printf("  Poll interval: %s\n", cfg.PollInterval.Duration())
	if cfg.SettingsPath != "" {
		fmt.Printf("  Settings file: %s\n", cfg.SettingsPath)
	}
	fmt.Printf("  API auth:      %v\n", cfg.APITokenHash != "")

	return nil
}
