// Standalone mock printer service for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockprinter
//
// Then in another terminal:
//
//	go run ./cmd/labelbridge serve -c example/config.yaml
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

func main() {
	fmt.Println("Mock printer service starting on :8013")
	fmt.Println("Accepted print jobs show as \"printing\" for a few seconds")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var (
		mu        sync.Mutex
		printing  time.Time
		lastPrint string
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /labeldesigner/api/printer_status", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		status := "ready"
		if time.Now().Before(printing) {
			status = "printing"
		}
		resp := map[string]any{
			"status": status,
			"printer": map[string]any{
				"model":     "QL-810W",
				"connected": true,
			},
		}
		if lastPrint != "" {
			resp["last_print"] = lastPrint
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("GET /labeldesigner/api/printer_info", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":       "QL-810W",
			"label_sizes": []string{"17x54", "29x90", "62", "102"},
		})
	})

	accept := func(kind string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			printing = time.Now().Add(time.Duration(2+rand.Intn(4)) * time.Second)
			lastPrint = time.Now().Format(time.RFC3339)
			mu.Unlock()

			slog.Info("print accepted", "kind", kind, "label_size", r.FormValue("label_size"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":  "success",
				"message": "label queued",
			})
		}
	}
	mux.HandleFunc("POST /labeldesigner/api/print", accept("text"))
	mux.HandleFunc("POST /labeldesigner/api/print/image", accept("image"))
	mux.HandleFunc("POST /labeldesigner/api/print/barcode", accept("barcode"))

	if err := http.ListenAndServe(":8013", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
