// Package config loads mdpane configuration from a TOML file layered over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Sync    Sync    `toml:"sync"`
	Editor  Editor  `toml:"editor"`
	Preview Preview `toml:"preview"`
	Log     Log     `toml:"log"`
}

// Sync configures the scroll synchronization engine.
type Sync struct {
	// SuppressWindowMS is the echo-suppression window in milliseconds.
	SuppressWindowMS int `toml:"suppress_window_ms"`
	// FrameRate is the dispatch clock rate in ticks per second.
	FrameRate int `toml:"frame_rate"`
	// ReportQueueSize bounds the preview scroll-report queue.
	ReportQueueSize int `toml:"report_queue_size"`
}

// Editor configures the source pane.
type Editor struct {
	Wrap     bool `toml:"wrap"`
	TabWidth int  `toml:"tab_width"`
}

// Preview configures the rendered pane.
type Preview struct {
	// CodeTheme names the chroma style used for fenced code blocks.
	CodeTheme string `toml:"code_theme"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
	// File is the log destination; empty discards log output since the
	// terminal belongs to the UI.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sync: Sync{
			SuppressWindowMS: 50,
			FrameRate:        60,
			ReportQueueSize:  32,
		},
		Editor: Editor{
			Wrap:     true,
			TabWidth: 4,
		},
		Preview: Preview{
			CodeTheme: "monokai",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// DefaultPath returns the conventional config location, or "" when the user
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mdpane", "mdpane.toml")
}

// Load reads configuration from path, layered over the defaults. A missing
// file is not an error; the defaults apply. MDPANE_LOG_LEVEL overrides the
// configured log level.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file, defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if level := os.Getenv("MDPANE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	cfg.Validate()
	return cfg, nil
}

// Validate clamps out-of-range values back to their defaults rather than
// rejecting the file; the previewer should start even with a sloppy config.
func (c *Config) Validate() {
	def := Default()
	if c.Sync.SuppressWindowMS <= 0 {
		c.Sync.SuppressWindowMS = def.Sync.SuppressWindowMS
	}
	if c.Sync.FrameRate <= 0 || c.Sync.FrameRate > 240 {
		c.Sync.FrameRate = def.Sync.FrameRate
	}
	if c.Sync.ReportQueueSize <= 0 {
		c.Sync.ReportQueueSize = def.Sync.ReportQueueSize
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		c.Editor.TabWidth = def.Editor.TabWidth
	}
	if c.Preview.CodeTheme == "" {
		c.Preview.CodeTheme = def.Preview.CodeTheme
	}
}
