// Package config provides YAML configuration parsing for labelbridge.
//
// This package enables running labelbridge as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	printer:
//	  host: 192.168.1.50
//	  port: 8013
//
//	listen_port: 8080
//	poll_interval: 30s
//	settings_path: /var/lib/labelbridge/settings.toml
//	api_token_hash: ${LABELBRIDGE_TOKEN_HASH:-}
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Polling interval bounds for production configs. The lower bound prevents
// accidental DoS of the printer service.
const (
	minPollInterval = 1 * time.Second
	maxPollInterval = 1 * time.Hour
)

const (
	defaultPrinterPort  = 8013
	defaultListenPort   = 8080
	defaultPollInterval = 30 * time.Second
)

// Config is the root configuration structure for labelbridge.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Printer is the connection descriptor of the printer web service.
	Printer PrinterConfig `yaml:"printer"`

	// ListenPort is the local HTTP API port. Defaults to 8080.
	ListenPort int `yaml:"listen_port"`

	// PollInterval is the time between status polls.
	// Accepts duration strings like "10s", "1m", "500ms".
	// Defaults to 30s.
	PollInterval Duration `yaml:"poll_interval"`

	// SettingsPath is the file the settings record is persisted to.
	// Empty keeps settings in memory only.
	SettingsPath string `yaml:"settings_path"`

	// APITokenHash is a bcrypt hash enabling bearer-token auth on the
	// local API. Supports environment variable substitution. Empty leaves
	// the API open.
	APITokenHash string `yaml:"api_token_hash"`
}

// PrinterConfig identifies one printer web service instance.
type PrinterConfig struct {
	// Host is the hostname or IP address of the service.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Host string `yaml:"host"`

	// Port is the service port. Defaults to 8013.
	Port int `yaml:"port"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in Host and APITokenHash. Defaults are
// applied for Printer.Port (8013), ListenPort (8080), and PollInterval (30s).
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Printer.Port == 0 {
		cfg.Printer.Port = defaultPrinterPort
	}
	if cfg.ListenPort == 0 {
		cfg.ListenPort = defaultListenPort
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(defaultPollInterval)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.Printer.Host == "" {
		return fmt.Errorf("printer.host is required")
	}
	expanded, err := expandEnvVars(c.Printer.Host)
	if err != nil {
		return fmt.Errorf("printer.host: %w", err)
	}
	c.Printer.Host = expanded

	if c.Printer.Port < 1 || c.Printer.Port > 65535 {
		return fmt.Errorf("printer.port must be between 1 and 65535, got %d", c.Printer.Port)
	}
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("listen_port must be between 1 and 65535, got %d", c.ListenPort)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}
	if c.PollInterval.Duration() > maxPollInterval {
		return fmt.Errorf("poll_interval must not exceed %s, got %s", maxPollInterval, c.PollInterval.Duration())
	}

	expanded, err = expandEnvVars(c.APITokenHash)
	if err != nil {
		return fmt.Errorf("api_token_hash: %w", err)
	}
	c.APITokenHash = expanded

	return nil
}
