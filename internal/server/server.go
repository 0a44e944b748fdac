package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labelbridge/labelbridge/internal/actions"
	"github.com/labelbridge/labelbridge/internal/printer"
	"github.com/labelbridge/labelbridge/internal/settings"
	"github.com/labelbridge/labelbridge/internal/store"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write
	// operation. This prevents goroutine leaks when clients are slow or
	// disconnected. Must be <= shutdown timeout to ensure clean shutdown.
	sseWriteTimeout = 5 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Server exposes the printer state and actions over HTTP.
//
// Endpoints:
//   - GET  /                        embedded status page
//   - GET  /api/status              current snapshot as JSON
//   - GET  /api/sse                 Server-Sent Events snapshot stream
//   - GET  /api/ws                  WebSocket snapshot stream
//   - GET  /api/settings            current settings record
//   - PATCH /api/settings           partial settings update
//   - POST /api/print/text          print a text label
//   - POST /api/print/barcode       print a barcode label
//   - POST /api/print/datetime      print a datetime label
//   - POST /api/font-size          set the current font size
//   - POST /api/font-size/reset    reset it to the default
//   - POST /api/font-size/preset   apply a named or numeric preset
//   - POST /api/reload             force an immediate status poll
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	store      store.Store
	actions    *actions.Handler
	settings   *settings.Manager
	port       int
	assets     fs.FS
	auth       *TokenAuth
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates a new HTTP [Server]. assets may be nil to disable the
// status page; auth may be nil to disable token checks.
func NewServer(st store.Store, handler *actions.Handler, mgr *settings.Manager, port int, assets fs.FS, auth *TokenAuth, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:    st,
		actions:  handler,
		settings: mgr,
		port:     port,
		assets:   assets,
		auth:     auth,
		logger:   logger,
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server runs until the context is cancelled, then shuts
// down gracefully with a bounded timeout.
//
// Returns an error if the server fails to bind to the configured port.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.protect(s.handleStatus))
	mux.HandleFunc("GET /api/sse", s.protect(s.handleSSE))
	mux.HandleFunc("GET /api/ws", s.protect(s.handleWS))
	mux.HandleFunc("GET /api/settings", s.protect(s.handleGetSettings))
	mux.HandleFunc("PATCH /api/settings", s.protect(s.handlePatchSettings))
	mux.HandleFunc("POST /api/print/text", s.protect(s.handlePrintText))
	mux.HandleFunc("POST /api/print/barcode", s.protect(s.handlePrintBarcode))
	mux.HandleFunc("POST /api/print/datetime", s.protect(s.handlePrintDatetime))
	mux.HandleFunc("POST /api/font-size", s.protect(s.handleSetFontSize))
	mux.HandleFunc("POST /api/font-size/reset", s.protect(s.handleResetFontSize))
	mux.HandleFunc("POST /api/font-size/preset", s.protect(s.handleFontSizePreset))
	mux.HandleFunc("POST /api/reload", s.protect(s.handleReload))

	if s.assets != nil {
		mux.HandleFunc("GET /{$}", s.handleIndex)
	}

	// create listener first to verify port availability synchronously
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: mux,
		// BaseContext derives all request contexts from the server context,
		// so cancelling ctx also unblocks long-running handlers (SSE, WS).
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// protect wraps a handler with the optional bearer-token check.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	if s.auth == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.Allow(r) {
			s.writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "status page not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(content); err != nil {
		s.logger.Error("failed to write status page", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.store.Get()
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.settings.Current())
}

// settingsPatch is the partial-update body for PATCH /api/settings.
// Only non-nil fields are applied.
type settingsPatch struct {
	UpdateIntervalSeconds *int    `json:"update_interval_seconds"`
	DefaultFontSize       *int    `json:"default_font_size"`
	GooberFontSize        *int    `json:"goober_font_size"`
	CurrentFontSize       *int    `json:"current_font_size"`
	LabelSize             *string `json:"label_size"`
	DatetimeFormat        *string `json:"datetime_format"`
	PrintText             *string `json:"print_text"`
	Treat400AsSuccess     *bool   `json:"treat_400_as_success"`
}

func (s *Server) handlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	next, err := s.settings.Update(func(cfg settings.Settings) settings.Settings {
		if patch.UpdateIntervalSeconds != nil {
			cfg = cfg.WithUpdateIntervalSeconds(*patch.UpdateIntervalSeconds)
		}
		if patch.DefaultFontSize != nil {
			cfg = cfg.WithDefaultFontSize(*patch.DefaultFontSize)
		}
		if patch.GooberFontSize != nil {
			cfg = cfg.WithGooberFontSize(*patch.GooberFontSize)
		}
		if patch.CurrentFontSize != nil {
			cfg = cfg.WithCurrentFontSize(*patch.CurrentFontSize)
		}
		if patch.LabelSize != nil {
			cfg = cfg.WithLabelSize(*patch.LabelSize)
		}
		if patch.DatetimeFormat != nil {
			cfg = cfg.WithDatetimeFormat(*patch.DatetimeFormat)
		}
		if patch.PrintText != nil {
			cfg = cfg.WithPrintText(*patch.PrintText)
		}
		if patch.Treat400AsSuccess != nil {
			cfg = cfg.WithTreat400AsSuccess(*patch.Treat400AsSuccess)
		}
		return cfg
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, next)
}

func (s *Server) handlePrintText(w http.ResponseWriter, r *http.Request) {
	var req actions.PrintTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.finishAction(w, s.actions.PrintText(r.Context(), req))
}

func (s *Server) handlePrintBarcode(w http.ResponseWriter, r *http.Request) {
	var req actions.PrintBarcodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.finishAction(w, s.actions.PrintBarcode(r.Context(), req))
}

func (s *Server) handlePrintDatetime(w http.ResponseWriter, r *http.Request) {
	req := actions.PrintDatetimeRequest{}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	s.finishAction(w, s.actions.PrintDatetime(r.Context(), req))
}

func (s *Server) handleSetFontSize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FontSize int `json:"font_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.actions.SetFontSize(req.FontSize); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"font_size": req.FontSize})
}

func (s *Server) handleResetFontSize(w http.ResponseWriter, r *http.Request) {
	if err := s.actions.ResetFontSize(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"font_size": s.settings.Current().CurrentFontSize})
}

func (s *Server) handleFontSizePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset string `json:"preset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	size, err := s.actions.SetFontSizePreset(req.Preset)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"font_size": size})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.actions.Reload()
	s.writeJSON(w, http.StatusAccepted, map[string]string{"result": "refresh requested"})
}

// handleSSE streams snapshot updates via Server-Sent Events.
//
// Write deadlines prevent goroutine leaks when clients are slow or
// disconnected: a blocked write times out instead of hiding context
// cancellation or channel closure.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeAndFlush := func(data []byte) error {
		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	// send the current snapshot first so clients render immediately
	if snap, ok := s.store.Get(); ok {
		data, err := json.Marshal(snap)
		if err == nil {
			if err := writeAndFlush(data); err != nil {
				return
			}
		}
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if err := writeAndFlush(data); err != nil {
				return
			}
		case <-r.Context().Done():
			// fires on both client disconnect and server shutdown
			return
		}
	}
}

// finishAction maps an action error onto an HTTP response: validation
// errors become 400, printer-side failures 502, everything else 500.
func (s *Server) finishAction(w http.ResponseWriter, err error) {
	if err == nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"result": "printed"})
		return
	}

	var authErr *printer.AuthenticationError
	var commErr *printer.CommunicationError
	switch {
	case errors.As(err, &authErr), errors.As(err, &commErr):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		var clientErr *printer.Error
		if errors.As(err, &clientErr) {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
