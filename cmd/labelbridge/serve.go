package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"syscall"

	"github.com/judwhite/go-svc"
	"github.com/spf13/cobra"

	"github.com/labelbridge/labelbridge"
	"github.com/labelbridge/labelbridge/config"
)

// serveCmd runs the labelbridge daemon.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge daemon",
	Long: `Run the labelbridge daemon.

The daemon will:
  - Load configuration from the specified YAML file
  - Start polling the printer status
  - Serve the local API on the configured port

The daemon runs until interrupted (Ctrl+C) or receives SIGTERM. On
Windows it can also run as a managed service.

Example:
  labelbridge serve -c config.yaml
  labelbridge serve --config /etc/labelbridge/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = serveCmd.MarkFlagRequired("config")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"printer", fmt.Sprintf("%s:%d", cfg.Printer.Host, cfg.Printer.Port),
		"listen_port", cfg.ListenPort,
		"poll_interval", cfg.PollInterval.Duration().String(),
	)

	opts := append(config.BuildOptions(cfg), labelbridge.WithLogger(logger))
	bridge, err := labelbridge.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	prg := &program{bridge: bridge, logger: logger}
	if err := svc.Run(prg, syscall.SIGINT, syscall.SIGTERM); err != nil {
		return fmt.Errorf("service error: %w", err)
	}
	return nil
}

// program adapts the bridge to the svc.Service lifecycle so the same binary
// runs in a foreground terminal and under a service manager.
type program struct {
	bridge *labelbridge.Bridge
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	errMu  sync.Mutex
	runErr error
}

// Init implements svc.Service.
func (p *program) Init(env svc.Environment) error {
	if env.IsWindowsService() {
		p.logger.Info("running as a windows service")
	}
	return nil
}

// Start implements svc.Service. It is non-blocking: the bridge runs in a
// background goroutine until Stop cancels its context.
func (p *program) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.bridge.Start(ctx); err != nil {
			p.errMu.Lock()
			p.runErr = err
			p.errMu.Unlock()
			p.logger.Error("bridge stopped with error", "error", err)
		}
	}()
	return nil
}

// Stop implements svc.Service. It cancels the bridge context and waits for
// graceful shutdown.
func (p *program) Stop() error {
	p.cancel()
	p.wg.Wait()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	if p.runErr != nil {
		return p.runErr
	}
	p.logger.Info("shutdown complete")
	return nil
}
