// Package config handles gbalink path and server configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is absent or leaves fields unset.
const (
	// DefaultListen matches the port the original mGBA-side server used.
	DefaultListen = "127.0.0.1:5555"
	// DefaultFrameRate is the development server's tick rate.
	DefaultFrameRate = 60
	// DefaultHoldFrames is the press duration when a request omits one.
	DefaultHoldFrames = 10
	// DefaultWriteTimeoutMS bounds best-effort response writes.
	DefaultWriteTimeoutMS = 2
)

// Paths holds common paths used by gbalink.
type Paths struct {
	Home      string
	Config    string
	Logs      string
	ServerLog string
}

// GetPaths returns the paths for the current user.
func GetPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	gbalinkHome := filepath.Join(home, ".gbalink")
	logsDir := filepath.Join(gbalinkHome, "logs")
	return &Paths{
		Home:      gbalinkHome,
		Config:    filepath.Join(gbalinkHome, "config.yaml"),
		Logs:      logsDir,
		ServerLog: filepath.Join(logsDir, "server.log"),
	}, nil
}

// EnsureDirectories creates the required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Home, p.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Config is the server configuration file.
type Config struct {
	Listen         string `yaml:"listen,omitempty"`
	FrameRate      int    `yaml:"frame_rate,omitempty"`
	HoldFrames     int    `yaml:"hold_frames,omitempty"`
	WriteTimeoutMS int    `yaml:"write_timeout_ms,omitempty"`
}

// Load reads a config file. A missing file is not an error: every field
// falls back to its default through the accessors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// GetListen returns the listen address, using the default if not set.
func (c *Config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}
	return DefaultListen
}

// GetFrameRate returns the tick rate, using the default if not set.
func (c *Config) GetFrameRate() int {
	if c.FrameRate > 0 {
		return c.FrameRate
	}
	return DefaultFrameRate
}

// GetHoldFrames returns the default press duration, using the default if
// not set.
func (c *Config) GetHoldFrames() int {
	if c.HoldFrames > 0 {
		return c.HoldFrames
	}
	return DefaultHoldFrames
}

// GetWriteTimeout returns the response write deadline, using the default
// if not set.
func (c *Config) GetWriteTimeout() time.Duration {
	ms := c.WriteTimeoutMS
	if ms <= 0 {
		ms = DefaultWriteTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}
