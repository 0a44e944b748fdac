package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockPrinter simulates a brother_ql_web service: a status endpoint plus the
// three print endpoints. Accepted print jobs flip the status to "printing"
// for a short window and stamp last_print.
type mockPrinter struct {
	mu        sync.Mutex
	printing  time.Time // status is "printing" until this instant
	lastPrint string
}

// StartMockPrinter runs a mock printer service on addr.
// Call this in a goroutine before starting the bridge.
func StartMockPrinter(addr string) {
	p := &mockPrinter{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /labeldesigner/api/printer_status", p.handleStatus)
	mux.HandleFunc("GET /labeldesigner/api/printer_info", p.handleInfo)
	mux.HandleFunc("POST /labeldesigner/api/print", p.handlePrint("text"))
	mux.HandleFunc("POST /labeldesigner/api/print/image", p.handlePrint("image"))
	mux.HandleFunc("POST /labeldesigner/api/print/barcode", p.handlePrint("barcode"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock printer error", "error", err)
	}
}

func (p *mockPrinter) handleStatus(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	status := "ready"
	if time.Now().Before(p.printing) {
		status = "printing"
	}
	resp := map[string]any{
		"status": status,
		"printer": map[string]any{
			"model":     "QL-810W",
			"connected": true,
		},
	}
	if p.lastPrint != "" {
		resp["last_print"] = p.lastPrint
	}
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func (p *mockPrinter) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":       "QL-810W",
		"label_sizes": []string{"17x54", "29x90", "62", "102"},
	})
}

// handlePrint accepts a print job of the given kind. It simulates print
// latency by reporting "printing" for 2-5 seconds afterwards.
func (p *mockPrinter) handlePrint(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.printing = time.Now().Add(time.Duration(2+rand.Intn(4)) * time.Second)
		p.lastPrint = time.Now().Format(time.RFC3339)
		p.mu.Unlock()

		slog.Info("print accepted", "kind", kind, "label_size", r.FormValue("label_size"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "success",
			"message": "label queued",
		})
	}
}
