// Package settings holds the typed, versioned user settings record.
//
// The record replaces the untyped per-entry options dictionary of earlier
// iterations: every field is typed, defaults live in one place, updates are
// copy-on-write, and persistence is an explicit save.
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults for every settings field.
const (
	DefaultUpdateIntervalSeconds = 30
	DefaultFontSize              = 50
	DefaultGooberFontSize        = 20
	DefaultLabelSize             = "17x54"
	DefaultDatetimeFormat        = "Date and Time"
	DefaultPrintText             = ""
)

// Font size bounds accepted anywhere a size is set.
const (
	MinFontSize = 10
	MaxFontSize = 500
)

// Named font-size presets.
const (
	PresetGoober  = "goober"
	PresetDefault = "default"
)

// DatetimeFormats are the accepted values for the datetime label format.
var DatetimeFormats = []string{"Date", "Time", "Date and Time"}

// LabelSizes are the label media sizes the print service accepts.
var LabelSizes = []string{
	"12", "12+17", "18", "29", "38", "50", "54", "62", "62red",
	"102", "103", "104",
	"17x54", "17x87", "23x23", "29x42", "29x90", "39x90", "39x48",
	"52x29", "54x29", "60x86", "62x29", "62x100",
	"102x51", "102x152", "103x164",
	"d12", "d24", "d58",
	"pt12", "pt18", "pt24", "pt36",
}

// Settings is the user-tunable configuration record.
//
// Settings values are immutable in use: the With* methods return modified
// copies, and [Manager.Update] is the only place a new revision becomes
// current. Revision increases by one on every applied update.
type Settings struct {
	Revision              int    `toml:"revision" json:"revision"`
	UpdateIntervalSeconds int    `toml:"update_interval_seconds" json:"update_interval_seconds"`
	DefaultFontSize       int    `toml:"default_font_size" json:"default_font_size"`
	GooberFontSize        int    `toml:"goober_font_size" json:"goober_font_size"`
	CurrentFontSize       int    `toml:"current_font_size" json:"current_font_size"`
	LabelSize             string `toml:"label_size" json:"label_size"`
	DatetimeFormat        string `toml:"datetime_format" json:"datetime_format"`
	PrintText             string `toml:"print_text" json:"print_text"`
	Treat400AsSuccess     bool   `toml:"treat_400_as_success" json:"treat_400_as_success"`
}

// Defaults returns the settings record with every field at its default.
func Defaults() Settings {
	return Settings{
		Revision:              0,
		UpdateIntervalSeconds: DefaultUpdateIntervalSeconds,
		DefaultFontSize:       DefaultFontSize,
		GooberFontSize:        DefaultGooberFontSize,
		CurrentFontSize:       DefaultFontSize,
		LabelSize:             DefaultLabelSize,
		DatetimeFormat:        DefaultDatetimeFormat,
		PrintText:             DefaultPrintText,
		Treat400AsSuccess:     true,
	}
}

// Validate checks every field against its documented constraints.
func (s Settings) Validate() error {
	if s.UpdateIntervalSeconds < 1 {
		return fmt.Errorf("update_interval_seconds must be at least 1, got %d", s.UpdateIntervalSeconds)
	}
	for name, size := range map[string]int{
		"default_font_size": s.DefaultFontSize,
		"goober_font_size":  s.GooberFontSize,
		"current_font_size": s.CurrentFontSize,
	} {
		if size < MinFontSize || size > MaxFontSize {
			return fmt.Errorf("%s must be between %d and %d, got %d", name, MinFontSize, MaxFontSize, size)
		}
	}
	if !contains(LabelSizes, s.LabelSize) {
		return fmt.Errorf("unknown label size %q", s.LabelSize)
	}
	if !contains(DatetimeFormats, s.DatetimeFormat) {
		return fmt.Errorf("datetime_format must be one of %s, got %q",
			strings.Join(DatetimeFormats, ", "), s.DatetimeFormat)
	}
	return nil
}

// WithCurrentFontSize returns a copy with the current font size replaced.
func (s Settings) WithCurrentFontSize(size int) Settings {
	s.CurrentFontSize = size
	return s
}

// WithDefaultFontSize returns a copy with the default font size replaced.
func (s Settings) WithDefaultFontSize(size int) Settings {
	s.DefaultFontSize = size
	return s
}

// WithGooberFontSize returns a copy with the goober preset size replaced.
func (s Settings) WithGooberFontSize(size int) Settings {
	s.GooberFontSize = size
	return s
}

// WithLabelSize returns a copy with the label size replaced.
func (s Settings) WithLabelSize(size string) Settings {
	s.LabelSize = size
	return s
}

// WithDatetimeFormat returns a copy with the datetime format replaced.
func (s Settings) WithDatetimeFormat(format string) Settings {
	s.DatetimeFormat = format
	return s
}

// WithPrintText returns a copy with the stored print text replaced.
func (s Settings) WithPrintText(text string) Settings {
	s.PrintText = text
	return s
}

// WithTreat400AsSuccess returns a copy with the 400-suppression policy set.
func (s Settings) WithTreat400AsSuccess(enabled bool) Settings {
	s.Treat400AsSuccess = enabled
	return s
}

// WithUpdateIntervalSeconds returns a copy with the poll interval replaced.
func (s Settings) WithUpdateIntervalSeconds(seconds int) Settings {
	s.UpdateIntervalSeconds = seconds
	return s
}

// ResolveFontPreset maps a preset name to a concrete font size.
//
// "goober" and "default" (case-insensitive) resolve to the corresponding
// configured sizes. A numeric string is accepted verbatim if it falls
// within [MinFontSize, MaxFontSize]. Anything else is an error.
func (s Settings) ResolveFontPreset(preset string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetGoober:
		return s.GooberFontSize, nil
	case PresetDefault:
		return s.DefaultFontSize, nil
	}

	size, err := strconv.Atoi(strings.TrimSpace(preset))
	if err != nil {
		return 0, fmt.Errorf("invalid font size preset %q", preset)
	}
	if size < MinFontSize || size > MaxFontSize {
		return 0, fmt.Errorf("font size must be between %d and %d, got %d", MinFontSize, MaxFontSize, size)
	}
	return size, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
