// Package config loads wavescope settings from ~/.wavescope/config.yaml with
// WAVESCOPE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".wavescope"
	// DefaultConfigFile is the configuration filename inside DefaultBaseDir.
	DefaultConfigFile = "config.yaml"
)

// Config holds rendering and playback settings.
type Config struct {
	// Width is the SVG width in user units. Together with Smoothing it
	// decides how many envelope points are computed.
	Width int `yaml:"width"`

	// Height is the SVG height in user units.
	Height int `yaml:"height"`

	// Smoothing is the horizontal distance between envelope points.
	Smoothing float64 `yaml:"smoothing"`

	// RefreshMS is the cursor polling interval in milliseconds.
	RefreshMS int `yaml:"refresh_ms"`

	// Volume is the initial playback volume (0.0 to 1.0).
	Volume float64 `yaml:"volume"`

	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `yaml:"log_file,omitempty"`

	path string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Width:     800,
		Height:    120,
		Smoothing: 2,
		RefreshMS: 16,
		Volume:    0.8,
	}
}

// DefaultPath returns ~/.wavescope/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// Load reads the config file at path (DefaultPath when empty). A missing file
// is not an error. Environment overrides are applied last, then invalid
// values are replaced by defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.Validate()
	return cfg, nil
}

// Path returns the file the config was loaded from.
func (c Config) Path() string {
	return c.path
}

// Dir returns the directory holding the config file.
func (c Config) Dir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// LogPath returns the log file, defaulting to logs/wavescope.log next to the
// config file.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	if c.Dir() == "" {
		return ""
	}
	return filepath.Join(c.Dir(), "logs", "wavescope.log")
}

// DataPoints returns how many envelope points fill Width at the configured
// Smoothing.
func (c Config) DataPoints() int {
	return int(float64(c.Width) / c.Smoothing)
}

// RefreshInterval returns RefreshMS as a duration.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMS) * time.Millisecond
}

// Validate replaces out-of-range values with defaults.
func (c *Config) Validate() {
	d := Default()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if !(c.Smoothing > 0) {
		c.Smoothing = d.Smoothing
	}
	if c.RefreshMS <= 0 {
		c.RefreshMS = d.RefreshMS
	}
	if c.Volume < 0 || c.Volume > 1 {
		c.Volume = d.Volume
	}
}

func (c *Config) applyEnv() {
	c.Width = envInt("WAVESCOPE_WIDTH", c.Width)
	c.Height = envInt("WAVESCOPE_HEIGHT", c.Height)
	c.Smoothing = envFloat("WAVESCOPE_SMOOTHING", c.Smoothing)
	c.RefreshMS = envInt("WAVESCOPE_REFRESH_MS", c.RefreshMS)
	c.Volume = envFloat("WAVESCOPE_VOLUME", c.Volume)
	c.LogFile = envStr("WAVESCOPE_LOG_FILE", c.LogFile)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
