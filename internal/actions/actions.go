// Package actions implements the user-facing print and settings actions.
//
// Actions sit between the API surface and the printer client: they resolve
// defaults from the settings record, apply the treat-400-as-success policy,
// and correlate print jobs in logs. The 400 policy lives here, not in the
// client, so the client's error taxonomy stays honest.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/labelbridge/labelbridge/internal/printer"
	"github.com/labelbridge/labelbridge/internal/settings"
)

// Refresher triggers an out-of-band status poll. Implemented by the
// coordinator.
type Refresher interface {
	RequestRefresh()
}

// Handler executes print and settings actions against one printer.
type Handler struct {
	client    *printer.Client
	settings  *settings.Manager
	refresher Refresher
	logger    *slog.Logger

	// now is time.Now; overridable in tests only.
	now func() time.Time
}

// NewHandler creates an action [Handler]. refresher may be nil, in which
// case Reload is a no-op.
func NewHandler(client *printer.Client, mgr *settings.Manager, refresher Refresher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client:    client,
		settings:  mgr,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// PrintTextRequest carries the parameters of a text print action.
// Zero-valued fields fall back to the stored settings or the documented
// defaults.
type PrintTextRequest struct {
	Text        string `json:"text"`
	FontSize    int    `json:"font_size,omitempty"`
	FontFamily  string `json:"font_family,omitempty"`
	Alignment   string `json:"alignment,omitempty"`
	LineSpacing string `json:"line_spacing,omitempty"`
	LabelSize   string `json:"label_size,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

// PrintText prints a text label. The font size falls back to the stored
// current font size and the label size to the stored label size.
func (h *Handler) PrintText(ctx context.Context, req PrintTextRequest) error {
	if req.Text == "" {
		return errors.New("text is required")
	}

	cfg := h.settings.Current()
	style, opts := h.resolve(cfg, req.FontSize, req.FontFamily, req.Alignment, req.LineSpacing, req.LabelSize, req.Orientation)

	jobID := uuid.NewString()
	h.logger.Info("printing text label", "job_id", jobID, "text", req.Text, "font_size", style.FontSize)

	_, err := h.client.PrintText(ctx, req.Text, style, opts)
	return h.finishPrint(jobID, err, cfg)
}

// PrintBarcodeRequest carries the parameters of a barcode print action.
type PrintBarcodeRequest struct {
	Data        string `json:"data"`
	BarcodeType string `json:"barcode_type,omitempty"`
	LabelSize   string `json:"label_size,omitempty"`
	Orientation string `json:"orientation,omitempty"`
}

// PrintBarcode prints a barcode label.
func (h *Handler) PrintBarcode(ctx context.Context, req PrintBarcodeRequest) error {
	if req.Data == "" {
		return errors.New("data is required")
	}

	cfg := h.settings.Current()
	opts := printer.PrintOptions{
		LabelSize:   fallback(req.LabelSize, cfg.LabelSize),
		Orientation: req.Orientation,
	}

	jobID := uuid.NewString()
	h.logger.Info("printing barcode label", "job_id", jobID, "data", req.Data, "type", req.BarcodeType)

	_, err := h.client.PrintBarcode(ctx, req.Data, req.BarcodeType, opts)
	return h.finishPrint(jobID, err, cfg)
}

// PrintDatetimeRequest carries the parameters of a datetime print action.
type PrintDatetimeRequest struct {
	DatetimeFormat string `json:"datetime_format,omitempty"`
	FontSize       int    `json:"font_size,omitempty"`
	FontFamily     string `json:"font_family,omitempty"`
	Alignment      string `json:"alignment,omitempty"`
	LineSpacing    string `json:"line_spacing,omitempty"`
	LabelSize      string `json:"label_size,omitempty"`
	Orientation    string `json:"orientation,omitempty"`
}

// PrintDatetime prints the current date and/or time as a text label,
// formatted per the request or the stored datetime format.
func (h *Handler) PrintDatetime(ctx context.Context, req PrintDatetimeRequest) error {
	cfg := h.settings.Current()

	format := fallback(req.DatetimeFormat, cfg.DatetimeFormat)
	text, err := FormatDatetime(format, h.now())
	if err != nil {
		return err
	}

	style, opts := h.resolve(cfg, req.FontSize, req.FontFamily, req.Alignment, req.LineSpacing, req.LabelSize, req.Orientation)

	jobID := uuid.NewString()
	h.logger.Info("printing datetime label", "job_id", jobID, "text", text, "format", format)

	_, err = h.client.PrintText(ctx, text, style, opts)
	return h.finishPrint(jobID, err, cfg)
}

// FormatDatetime renders t according to one of the accepted datetime
// formats: "Date" (12/04/2025), "Time" (03:18:55 AM), or "Date and Time"
// (03:18:55 AM, 12/04/2025).
func FormatDatetime(format string, t time.Time) (string, error) {
	switch format {
	case "Date":
		return t.Format("01/02/2006"), nil
	case "Time":
		return t.Format("03:04:05 PM"), nil
	case "Date and Time":
		return fmt.Sprintf("%s, %s", t.Format("03:04:05 PM"), t.Format("01/02/2006")), nil
	default:
		return "", fmt.Errorf("invalid datetime format %q (expected Date, Time, or Date and Time)", format)
	}
}

// SetFontSize stores a new current font size.
func (h *Handler) SetFontSize(size int) error {
	_, err := h.settings.Update(func(s settings.Settings) settings.Settings {
		return s.WithCurrentFontSize(size)
	})
	if err != nil {
		return err
	}
	h.logger.Info("font size set", "font_size", size)
	return nil
}

// ResetFontSize restores the current font size to the configured default.
func (h *Handler) ResetFontSize() error {
	next, err := h.settings.Update(func(s settings.Settings) settings.Settings {
		return s.WithCurrentFontSize(s.DefaultFontSize)
	})
	if err != nil {
		return err
	}
	h.logger.Info("font size reset to default", "font_size", next.CurrentFontSize)
	return nil
}

// SetFontSizePreset resolves a named or numeric preset and stores it as the
// current font size. Returns the resolved size.
func (h *Handler) SetFontSizePreset(preset string) (int, error) {
	size, err := h.settings.Current().ResolveFontPreset(preset)
	if err != nil {
		return 0, err
	}
	if err := h.SetFontSize(size); err != nil {
		return 0, err
	}
	h.logger.Info("font size preset applied", "preset", preset, "font_size", size)
	return size, nil
}

// Reload forces an out-of-band status poll.
func (h *Handler) Reload() {
	if h.refresher == nil {
		return
	}
	h.logger.Info("data reload requested")
	h.refresher.RequestRefresh()
}

// resolve merges request fields with the stored settings into the client's
// style and option structs.
func (h *Handler) resolve(cfg settings.Settings, fontSize int, fontFamily, alignment, lineSpacing, labelSize, orientation string) (printer.TextStyle, printer.PrintOptions) {
	if fontSize == 0 {
		fontSize = cfg.CurrentFontSize
	}
	style := printer.TextStyle{
		FontSize:    fontSize,
		FontFamily:  fontFamily,
		Alignment:   alignment,
		LineSpacing: lineSpacing,
	}
	opts := printer.PrintOptions{
		LabelSize:   fallback(labelSize, cfg.LabelSize),
		Orientation: orientation,
	}
	return style, opts
}

// finishPrint applies the treat-400-as-success policy and logs the outcome.
func (h *Handler) finishPrint(jobID string, err error, cfg settings.Settings) error {
	if err == nil {
		h.logger.Info("label printed", "job_id", jobID)
		return nil
	}

	if cfg.Treat400AsSuccess {
		if status, ok := printer.HTTPStatus(err); ok && status == 400 {
			h.logger.Info("printer returned 400, treating as success", "job_id", jobID)
			return nil
		}
	}

	h.logger.Error("print failed", "job_id", jobID, "error", err)
	return err
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
