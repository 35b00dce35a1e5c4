package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("client connected", "conn", "abc")

	out := buf.String()
	if !strings.Contains(out, "client connected") || !strings.Contains(out, "conn=abc") {
		t.Errorf("log output = %q, missing message or attribute", out)
	}
}

func TestNewLoggerNilWriter(t *testing.T) {
	logger := NewLogger(nil)
	// Must not panic.
	logger.Info("dropped")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/tmp/gbalink.log")
	if cfg.Path != "/tmp/gbalink.log" {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		t.Errorf("non-positive rotation defaults: %+v", cfg)
	}
}
