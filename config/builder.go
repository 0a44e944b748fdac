package config

import (
	"github.com/labelbridge/labelbridge"
)

// BuildOptions converts a parsed configuration into SDK options for
// [labelbridge.New].
func BuildOptions(cfg *Config) []labelbridge.Option {
	opts := []labelbridge.Option{
		labelbridge.WithPrinter(cfg.Printer.Host, cfg.Printer.Port),
		labelbridge.WithListenPort(cfg.ListenPort),
		labelbridge.WithPollInterval(cfg.PollInterval.Duration()),
	}

	if cfg.SettingsPath != "" {
		opts = append(opts, labelbridge.WithSettingsPath(cfg.SettingsPath))
	}
	if cfg.APITokenHash != "" {
		opts = append(opts, labelbridge.WithAPITokenHash(cfg.APITokenHash))
	}

	return opts
}
