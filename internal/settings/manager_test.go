package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager_NoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if got := mgr.Current(); got != Defaults() {
		t.Errorf("Current() = %+v, want defaults", got)
	}

	// the file is only created on save
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("settings file exists before any save")
	}
}

func TestNewManager_InMemory(t *testing.T) {
	mgr, err := NewManager("", nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	// updates work without a backing file
	next, err := mgr.Update(func(s Settings) Settings {
		return s.WithCurrentFontSize(80)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if next.CurrentFontSize != 80 {
		t.Errorf("CurrentFontSize = %v, want 80", next.CurrentFontSize)
	}
}

func TestManager_UpdateBumpsRevision(t *testing.T) {
	mgr, err := NewManager("", nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	first, err := mgr.Update(func(s Settings) Settings {
		return s.WithLabelSize("62")
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if first.Revision != 1 {
		t.Errorf("Revision = %v, want 1", first.Revision)
	}

	second, err := mgr.Update(func(s Settings) Settings {
		return s.WithCurrentFontSize(100)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if second.Revision != 2 {
		t.Errorf("Revision = %v, want 2", second.Revision)
	}
	// earlier changes are carried forward
	if second.LabelSize != "62" {
		t.Errorf("LabelSize = %v, want 62", second.LabelSize)
	}
}

// TestManager_UpdateRejectsInvalid verifies that a failed validation leaves
// the current record and its revision untouched.
func TestManager_UpdateRejectsInvalid(t *testing.T) {
	mgr, err := NewManager("", nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	_, err = mgr.Update(func(s Settings) Settings {
		return s.WithCurrentFontSize(9999)
	})
	if err == nil {
		t.Fatal("Update() error = nil, want validation error")
	}

	current := mgr.Current()
	if current.CurrentFontSize != 50 {
		t.Errorf("CurrentFontSize = %v, want 50 (unchanged)", current.CurrentFontSize)
	}
	if current.Revision != 0 {
		t.Errorf("Revision = %v, want 0 (unchanged)", current.Revision)
	}
}

func TestManager_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelbridge", "settings.toml")

	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	want, err := mgr.Update(func(s Settings) Settings {
		return s.WithCurrentFontSize(120).
			WithLabelSize("29x90").
			WithDatetimeFormat("Time").
			WithTreat400AsSuccess(false)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// a fresh manager sees the persisted record
	reloaded, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() reload error = %v", err)
	}
	if got := reloaded.Current(); got != want {
		t.Errorf("reloaded Current() = %+v, want %+v", got, want)
	}
}

// TestManager_LoadKeepsDefaultsForMissingFields verifies that a file with a
// subset of fields does not zero the rest. Treat400AsSuccess defaults to
// true, which a naive decode into a zero struct would lose.
func TestManager_LoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("current_font_size = 75\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	got := mgr.Current()
	if got.CurrentFontSize != 75 {
		t.Errorf("CurrentFontSize = %v, want 75", got.CurrentFontSize)
	}
	if !got.Treat400AsSuccess {
		t.Error("Treat400AsSuccess = false, want true (default)")
	}
	if got.LabelSize != "17x54" {
		t.Errorf("LabelSize = %v, want 17x54 (default)", got.LabelSize)
	}
	if got.UpdateIntervalSeconds != 30 {
		t.Errorf("UpdateIntervalSeconds = %v, want 30 (default)", got.UpdateIntervalSeconds)
	}
}

func TestNewManager_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("current_font_size = 5\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := NewManager(path, nil)
	if err == nil {
		t.Fatal("NewManager() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "current_font_size") {
		t.Errorf("NewManager() error = %v, want it to mention current_font_size", err)
	}
}

func TestNewManager_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("{not toml"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := NewManager(path, nil); err == nil {
		t.Fatal("NewManager() error = nil, want parse error")
	}
}
