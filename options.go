package labelbridge

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// bridgeConfig holds mutable state during Bridge construction.
type bridgeConfig struct {
	host             string
	printerPort      int
	listenPort       int
	pollInterval     time.Duration
	settingsPath     string
	apiTokenHash     string
	logger           *slog.Logger
	snapshotHandlers []func(Snapshot)
}

// Option is a function that configures a [Bridge] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*bridgeConfig) error

// WithPrinter sets the connection descriptor of the printer web service.
//
// The service is reached at http://host:port. This option is required.
func WithPrinter(host string, port int) Option {
	return func(cfg *bridgeConfig) error {
		if host == "" {
			return errors.New("printer host cannot be empty")
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("printer port must be between 1 and 65535, got %d", port)
		}
		cfg.host = host
		cfg.printerPort = port
		return nil
	}
}

// WithListenPort sets the TCP port of the local HTTP API.
// Defaults to 8080 if not specified.
func WithListenPort(port int) Option {
	return func(cfg *bridgeConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("listen port must be between 1 and 65535")
		}
		cfg.listenPort = port
		return nil
	}
}

// WithPollInterval sets how often the printer status is polled.
//
// If not specified, the interval comes from the stored settings record
// (update_interval_seconds, default 30s).
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *bridgeConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithSettingsPath sets the file path for the persisted settings record
// (TOML). If not specified, settings live in memory only and reset on
// restart.
func WithSettingsPath(path string) Option {
	return func(cfg *bridgeConfig) error {
		cfg.settingsPath = path
		return nil
	}
}

// WithAPITokenHash enables bearer-token authentication on the local API.
// The argument is a bcrypt hash of the token, never the token itself.
// An empty hash leaves the API open (the default).
func WithAPITokenHash(hash string) Option {
	return func(cfg *bridgeConfig) error {
		cfg.apiTokenHash = hash
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the bridge.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *bridgeConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSnapshotCallback registers a function to be called on every snapshot
// update, including degradations.
//
// Multiple callbacks may be registered by calling WithSnapshotCallback
// multiple times; they execute in registration order.
//
// Callbacks must be non-blocking: they are invoked synchronously from the
// update fan-out goroutine, so a long-running callback delays subsequent
// updates. Panics within callbacks are recovered and logged; they do not
// crash the bridge.
//
// Nil callbacks are silently ignored.
func WithSnapshotCallback(cb func(Snapshot)) Option {
	return func(cfg *bridgeConfig) error {
		if cb == nil {
			return nil
		}
		cfg.snapshotHandlers = append(cfg.snapshotHandlers, cb)
		return nil
	}
}
