package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sync.SuppressWindowMS != 50 {
		t.Errorf("SuppressWindowMS = %d, want 50", cfg.Sync.SuppressWindowMS)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdpane.toml")
	content := `
[sync]
suppress_window_ms = 80
frame_rate = 30

[editor]
wrap = false
tab_width = 8

[preview]
code_theme = "dracula"

[log]
level = "debug"
file = "/tmp/mdpane.log"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sync.SuppressWindowMS != 80 {
		t.Errorf("SuppressWindowMS = %d, want 80", cfg.Sync.SuppressWindowMS)
	}
	if cfg.Sync.FrameRate != 30 {
		t.Errorf("FrameRate = %d, want 30", cfg.Sync.FrameRate)
	}
	// Unset keys keep their defaults.
	if cfg.Sync.ReportQueueSize != 32 {
		t.Errorf("ReportQueueSize = %d, want 32", cfg.Sync.ReportQueueSize)
	}
	if cfg.Editor.Wrap {
		t.Error("Wrap = true, want false")
	}
	if cfg.Editor.TabWidth != 8 {
		t.Errorf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Preview.CodeTheme != "dracula" {
		t.Errorf("CodeTheme = %q, want dracula", cfg.Preview.CodeTheme)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[sync\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of malformed file succeeded, want error")
	}
}

func TestLoadEnvOverridesLogLevel(t *testing.T) {
	t.Setenv("MDPANE_LOG_LEVEL", "debug")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidateClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		check func(Config) bool
	}{
		{
			name:  "zero suppress window",
			mut:   func(c *Config) { c.Sync.SuppressWindowMS = 0 },
			check: func(c Config) bool { return c.Sync.SuppressWindowMS == 50 },
		},
		{
			name:  "negative frame rate",
			mut:   func(c *Config) { c.Sync.FrameRate = -1 },
			check: func(c Config) bool { return c.Sync.FrameRate == 60 },
		},
		{
			name:  "absurd frame rate",
			mut:   func(c *Config) { c.Sync.FrameRate = 10000 },
			check: func(c Config) bool { return c.Sync.FrameRate == 60 },
		},
		{
			name:  "zero queue size",
			mut:   func(c *Config) { c.Sync.ReportQueueSize = 0 },
			check: func(c Config) bool { return c.Sync.ReportQueueSize == 32 },
		},
		{
			name:  "tab width too large",
			mut:   func(c *Config) { c.Editor.TabWidth = 99 },
			check: func(c Config) bool { return c.Editor.TabWidth == 4 },
		},
		{
			name:  "empty code theme",
			mut:   func(c *Config) { c.Preview.CodeTheme = "" },
			check: func(c Config) bool { return c.Preview.CodeTheme == "monokai" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(&cfg)
			cfg.Validate()
			if !tt.check(cfg) {
				t.Errorf("Validate() left %+v", cfg)
			}
		})
	}
}
