package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/labelbridge/labelbridge/internal/printer"
	"github.com/labelbridge/labelbridge/internal/store"
)

// knownStatuses are the printer statuses passed through verbatim; anything
// else the service reports is normalized to "unknown".
var knownStatuses = map[string]struct{}{
	"ready":    {},
	"printing": {},
	"error":    {},
}

// Coordinator polls the printer status on a fixed interval and publishes
// the result to the snapshot store.
//
// The coordinator moves through three implicit states: uninitialized (no
// data yet), healthy (last poll succeeded), and degraded (last poll
// failed). A successful poll replaces the snapshot wholesale and resets the
// failure counter; a failed poll leaves the previous snapshot visible.
//
// Polls never overlap: the loop runs in a single goroutine and a missed
// tick is not queued. A failed poll is not retried within the cycle; the
// next outcome is determined strictly by the next tick.
type Coordinator struct {
	client   *printer.Client
	store    store.Store
	interval time.Duration
	logger   *slog.Logger

	// onAuthError is invoked when a poll fails with an authentication
	// error. For this service that signals "unreachable or misconfigured"
	// rather than bad credentials, since the target has none.
	onAuthError func(error)

	refreshCh chan struct{}

	mu       sync.Mutex
	failures int
}

// New creates a [Coordinator]. onAuthError may be nil.
func New(client *printer.Client, st store.Store, interval time.Duration, logger *slog.Logger, onAuthError func(error)) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		client:      client,
		store:       st,
		interval:    interval,
		logger:      logger,
		onAuthError: onAuthError,
		refreshCh:   make(chan struct{}, 1),
	}
}

// Setup performs the one-time initialization before the first scheduled
// poll: a best-effort printer-info fetch. Failure is logged but never
// blocks startup.
func (c *Coordinator) Setup(ctx context.Context) {
	info, err := c.client.Info(ctx)
	if err != nil {
		c.logger.Warn("could not fetch printer info during setup", "error", err)
		return
	}
	c.logger.Debug("printer info", "info", info)
}

// Run polls immediately, then on every tick, until ctx is cancelled.
// Run blocks; call it in its own goroutine.
func (c *Coordinator) Run(ctx context.Context) {
	c.refresh(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refresh(ctx)
		case <-c.refreshCh:
			c.refresh(ctx)
		}
	}
}

// RequestRefresh schedules an out-of-band poll. If a refresh request is
// already pending the call is a no-op.
func (c *Coordinator) RequestRefresh() {
	select {
	case c.refreshCh <- struct{}{}:
	default:
	}
}

// Failures returns the number of consecutive failed polls.
func (c *Coordinator) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// refresh performs one poll round trip and records the outcome.
func (c *Coordinator) refresh(ctx context.Context) {
	snap, err := c.client.Status(ctx)
	if err == nil {
		c.store.Set(snapshotFromStatus(snap))

		c.mu.Lock()
		c.failures = 0
		c.mu.Unlock()

		c.logger.Debug("status poll completed", "status", snap.Status, "model", snap.Printer.Model)
		return
	}

	c.mu.Lock()
	c.failures++
	failures := c.failures
	c.mu.Unlock()

	c.store.MarkDegraded(time.Now(), err.Error())

	var authErr *printer.AuthenticationError
	if errors.As(err, &authErr) {
		c.logger.Warn("printer connection rejected, reauthentication required",
			"status_code", authErr.StatusCode,
			"consecutive_failures", failures,
		)
		if c.onAuthError != nil {
			c.invokeAuthCallback(err)
		}
		return
	}

	c.logger.Error("status poll failed",
		"error", err,
		"consecutive_failures", failures,
	)
}

// invokeAuthCallback calls the reauth hook with panic recovery so a
// misbehaving callback cannot kill the polling loop.
func (c *Coordinator) invokeAuthCallback(err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("auth error callback panicked", "panic", r)
		}
	}()
	c.onAuthError(err)
}

// snapshotFromStatus converts the client's wire payload to the store shape,
// normalizing unexpected status strings.
func snapshotFromStatus(s *printer.StatusSnapshot) store.Snapshot {
	status := s.Status
	if _, ok := knownStatuses[status]; !ok {
		status = "unknown"
	}
	return store.Snapshot{
		Status:    status,
		Model:     s.Printer.Model,
		Connected: s.Printer.Connected,
		LastPrint: s.LastPrint,
		CheckedAt: time.Now(),
	}
}
