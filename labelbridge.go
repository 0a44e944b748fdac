package labelbridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labelbridge/labelbridge/dashboard"
	"github.com/labelbridge/labelbridge/internal/actions"
	"github.com/labelbridge/labelbridge/internal/coordinator"
	"github.com/labelbridge/labelbridge/internal/printer"
	"github.com/labelbridge/labelbridge/internal/server"
	"github.com/labelbridge/labelbridge/internal/settings"
	"github.com/labelbridge/labelbridge/internal/store"
)

const defaultListenPort = 8080

// Bridge is the main orchestrator: it polls one printer web service, holds
// the last known snapshot, and serves the local API.
//
// A Bridge is created with [New] and functional options, then started with
// [Bridge.Start]. The caller controls the lifecycle via the context; cancel
// it to trigger graceful shutdown.
type Bridge struct {
	host             string
	printerPort      int
	listenPort       int
	pollInterval     time.Duration
	settingsPath     string
	apiTokenHash     string
	logger           *slog.Logger
	snapshotHandlers []func(Snapshot)

	reauthRequired atomic.Bool
}

// New creates a new [Bridge] with the given options.
//
// [WithPrinter] is required. Other options have defaults: API port 8080,
// poll interval from the settings record, in-memory settings, no API auth.
func New(opts ...Option) (*Bridge, error) {
	cfg := &bridgeConfig{
		listenPort: defaultListenPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.host == "" {
		return nil, errors.New("a printer connection is required (use WithPrinter)")
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{
		host:             cfg.host,
		printerPort:      cfg.printerPort,
		listenPort:       cfg.listenPort,
		pollInterval:     cfg.pollInterval,
		settingsPath:     cfg.settingsPath,
		apiTokenHash:     cfg.apiTokenHash,
		logger:           logger,
		snapshotHandlers: cfg.snapshotHandlers,
	}, nil
}

// Start runs the bridge until the provided context is cancelled.
//
// During execution:
//
//   - The printer status is polled immediately, then at the configured
//     interval
//   - The HTTP API starts on the configured port
//   - Registered snapshot callbacks fire on every update
//
// Returns nil on graceful shutdown, or an error if a component fails to
// start (settings load, HTTP bind, invalid connection descriptor).
func (b *Bridge) Start(ctx context.Context) error {
	b.logger.Info("labelbridge starting",
		"printer", fmt.Sprintf("%s:%d", b.host, b.printerPort),
		"api_port", b.listenPort,
	)

	if ctx.Err() != nil {
		return nil
	}

	mgr, err := settings.NewManager(b.settingsPath, b.logger)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	client, err := printer.NewClient(b.host, b.printerPort, b.logger)
	if err != nil {
		return fmt.Errorf("failed to create printer client: %w", err)
	}
	defer client.Close()

	interval := b.pollInterval
	if interval == 0 {
		interval = time.Duration(mgr.Current().UpdateIntervalSeconds) * time.Second
	}
	b.logger.Info("polling configured", "interval", interval.String())

	snapshots := store.NewMemoryStore()

	coord := coordinator.New(client, snapshots, interval, b.logger, func(err error) {
		b.reauthRequired.Store(true)
	})

	// one-time setup before the first scheduled poll; never blocks startup
	coord.Setup(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.Run(ctx)
	}()

	// consume snapshot updates: clear the reauth flag on recovery and fan
	// out to registered callbacks. Runs unconditionally so the flag resets
	// even when no callbacks are registered.
	updates := snapshots.Subscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				public := publicSnapshot(snap)
				if public.Connectivity == ConnectivityHealthy {
					b.reauthRequired.Store(false)
				}
				for _, cb := range b.snapshotHandlers {
					b.invokeCallbackSafe(cb, public)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	handler := actions.NewHandler(client, mgr, coord, b.logger)

	auth := server.NewTokenAuth(b.apiTokenHash)
	api := server.NewServer(snapshots, handler, mgr, b.listenPort, dashboard.Assets, auth, b.logger)
	if err := api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	b.logger.Info("api available", "url", fmt.Sprintf("http://localhost:%d", b.listenPort))

	<-ctx.Done()
	snapshots.Unsubscribe(updates)
	wg.Wait()
	b.logger.Info("labelbridge stopped")
	return nil
}

// ReauthRequired reports whether the most recent polls failed in a way that
// suggests the configured connection needs attention (the service answered
// with an authentication status, which for an unauthenticated target means
// "unreachable or misconfigured"). It resets on the next successful poll.
func (b *Bridge) ReauthRequired() bool {
	return b.reauthRequired.Load()
}

// ListenPort returns the configured HTTP API port.
func (b *Bridge) ListenPort() int {
	return b.listenPort
}

// PollInterval returns the configured poll interval, or zero when the
// interval is taken from the settings record at startup.
func (b *Bridge) PollInterval() time.Duration {
	return b.pollInterval
}

// invokeCallbackSafe calls a snapshot callback with panic recovery.
// Panics are logged but do not propagate.
func (b *Bridge) invokeCallbackSafe(cb func(Snapshot), snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("snapshot callback panicked", "panic", r)
		}
	}()
	cb(snap)
}

// publicSnapshot converts the storage representation to the public type.
func publicSnapshot(s store.Snapshot) Snapshot {
	errMsg := ""
	if s.Error != nil {
		errMsg = *s.Error
	}
	return Snapshot{
		Status:       Status(s.Status),
		Model:        s.Model,
		Connected:    s.Connected,
		LastPrint:    s.LastPrint,
		Connectivity: Connectivity(s.Connectivity),
		CheckedAt:    s.CheckedAt,
		Error:        errMsg,
	}
}
