package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelbridge/labelbridge/config"
	"github.com/labelbridge/labelbridge/internal/printer"
)

// statusCmd performs a one-shot printer status query.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query the printer status once",
	Long: `Query the printer status once and print the result as JSON.

Example:
  labelbridge status -c config.yaml`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = statusCmd.MarkFlagRequired("config")
}

func runStatus(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := printer.NewClient(cfg.Printer.Host, cfg.Printer.Port, newLogger())
	if err != nil {
		return err
	}
	defer client.Close()

	snap, err := client.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status query failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
