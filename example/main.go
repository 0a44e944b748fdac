package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labelbridge/labelbridge"
)

func main() {
	// start mock printer service (see mock_printer.go)
	go StartMockPrinter(":8013")
	time.Sleep(100 * time.Millisecond)

	// log every snapshot change
	onSnapshot := func(snap labelbridge.Snapshot) {
		slog.Info("printer snapshot",
			"status", snap.Status,
			"connectivity", snap.Connectivity,
			"model", snap.Model,
		)
	}

	bridge, err := labelbridge.New(
		labelbridge.WithPrinter("localhost", 8013),
		labelbridge.WithPollInterval(5*time.Second),
		labelbridge.WithListenPort(8080),
		labelbridge.WithSnapshotCallback(onSnapshot),
	)
	if err != nil {
		slog.Error("failed to create bridge", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   LabelBridge Demo                                    ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   A mock printer service runs on :8013.               ║")
	fmt.Println("  ║   Try a print:                                        ║")
	fmt.Println("  ║     curl -X POST localhost:8080/api/print/text \\      ║")
	fmt.Println("  ║       -d '{\"text\":\"hello\"}'                           ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bridge.Start(ctx); err != nil {
		slog.Error("bridge error", "error", err)
		os.Exit(1)
	}
}
