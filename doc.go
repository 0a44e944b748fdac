// Package labelbridge bridges a brother_ql_web label printing service to
// automation consumers.
//
// A Bridge polls the printer status on a fixed interval, keeps the last
// known snapshot, and serves a local HTTP API with print actions, a
// Server-Sent Events stream, and a WebSocket stream. It is designed as an
// SDK-first library: configure it programmatically with functional options,
// or run the labelbridge binary with a YAML config.
//
// # Quick Start
//
//	bridge, err := labelbridge.New(
//	    labelbridge.WithPrinter("192.168.1.50", 8013),
//	)
//	if err != nil {
//	    slog.Error("failed to create bridge", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bridge.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// Options cover the polling cadence, the API port, settings persistence,
// and an optional API token:
//
//	bridge, err := labelbridge.New(
//	    labelbridge.WithPrinter("192.168.1.50", 8013),
//	    labelbridge.WithPollInterval(15 * time.Second),
//	    labelbridge.WithListenPort(9090),
//	    labelbridge.WithSettingsPath("/var/lib/labelbridge/settings.toml"),
//	)
//
// Snapshots can also be consumed in-process via [WithSnapshotCallback].
package labelbridge
