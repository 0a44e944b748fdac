package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelbridge/labelbridge/config"
	"github.com/labelbridge/labelbridge/internal/actions"
	"github.com/labelbridge/labelbridge/internal/printer"
	"github.com/labelbridge/labelbridge/internal/settings"
)

// printCmd groups the one-shot print actions.
var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print a label without running the daemon",
	Long: `Print a label directly from the command line.

These commands talk to the printer service once and exit. They share the
persisted settings record with the daemon (font sizes, label size,
treat-400-as-success policy) when settings_path is configured.

Examples:
  labelbridge print text "hello world" -c config.yaml
  labelbridge print text "big" --font-size 120 -c config.yaml
  labelbridge print barcode 4006381333931 --type EAN13 -c config.yaml
  labelbridge print datetime -c config.yaml
  labelbridge print image label.png -c config.yaml`,
}

var printTextCmd = &cobra.Command{
	Use:   "text <text>",
	Short: "Print a text label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, _, err := newActionHandler(cmd)
		if err != nil {
			return err
		}
		fontSize, _ := cmd.Flags().GetInt("font-size")
		labelSize, _ := cmd.Flags().GetString("label-size")

		return handler.PrintText(cmd.Context(), actions.PrintTextRequest{
			Text:      args[0],
			FontSize:  fontSize,
			LabelSize: labelSize,
		})
	},
}

var printBarcodeCmd = &cobra.Command{
	Use:   "barcode <data>",
	Short: "Print a barcode label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, _, err := newActionHandler(cmd)
		if err != nil {
			return err
		}
		barcodeType, _ := cmd.Flags().GetString("type")
		labelSize, _ := cmd.Flags().GetString("label-size")

		return handler.PrintBarcode(cmd.Context(), actions.PrintBarcodeRequest{
			Data:        args[0],
			BarcodeType: barcodeType,
			LabelSize:   labelSize,
		})
	},
}

var printDatetimeCmd = &cobra.Command{
	Use:   "datetime",
	Short: "Print the current date and/or time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		handler, _, err := newActionHandler(cmd)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		return handler.PrintDatetime(cmd.Context(), actions.PrintDatetimeRequest{
			DatetimeFormat: format,
		})
	},
}

var printImageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Print an image label (PNG)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, err := newActionHandler(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		labelSize, _ := cmd.Flags().GetString("label-size")

		_, err = client.PrintImage(cmd.Context(), data, printer.PrintOptions{
			LabelSize: labelSize,
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
	printCmd.AddCommand(printTextCmd, printBarcodeCmd, printDatetimeCmd, printImageCmd)

	printCmd.PersistentFlags().StringP("config", "c", "", "path to config file (required)")
	_ = printCmd.MarkPersistentFlagRequired("config")
	printCmd.PersistentFlags().String("label-size", "", "label media size (default from settings)")

	printTextCmd.Flags().Int("font-size", 0, "font size (default from settings)")
	printBarcodeCmd.Flags().String("type", "", "barcode type (default CODE128)")
	printDatetimeCmd.Flags().String("format", "", `"Date", "Time", or "Date and Time" (default from settings)`)
}

// newActionHandler builds the shared client/settings/action stack for the
// one-shot commands. No coordinator is wired, so Reload is a no-op here.
func newActionHandler(cmd *cobra.Command) (*actions.Handler, *printer.Client, error) {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	mgr, err := settings.NewManager(cfg.SettingsPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	client, err := printer.NewClient(cfg.Printer.Host, cfg.Printer.Port, logger)
	if err != nil {
		return nil, nil, err
	}

	return actions.NewHandler(client, mgr, nil, logger), client, nil
}
