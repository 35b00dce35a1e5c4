package client

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gbalink/gbalink/internal/host"
	"github.com/gbalink/gbalink/internal/server"
)

// startTestServer runs a MemHost-backed server with a background frame
// loop, the way an emulator embedding would drive it.
func startTestServer(t *testing.T) (*Client, *host.MemHost) {
	t.Helper()

	h := host.NewMemHost()
	s := server.New(h, server.Params{}, nil)
	if err := s.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("server start: %v", err)
	}

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				h.AdvanceFrame()
				s.Tick()
			}
		}
	}()

	c := New(s.Addr())
	t.Cleanup(func() {
		c.Close()
		close(done)
		<-stopped
		s.Stop()
	})
	return c, h
}

func TestPing(t *testing.T) {
	c, _ := startTestServer(t)

	got, err := c.Ping()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got != "pong" {
		t.Errorf("Ping = %q, want pong", got)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	c, _ := startTestServer(t)

	if err := c.Write32(0x02000040, 0xCAFEBABE); err != nil {
		t.Fatalf("Write32: %v", err)
	}
	got, err := c.Read32(0x02000040)
	if err != nil {
		t.Fatalf("Read32: %v", err)
	}
	if got != 0xCAFEBABE {
		t.Errorf("Read32 = %#x, want 0xCAFEBABE", got)
	}

	lo, err := c.Read8(0x02000040)
	if err != nil {
		t.Fatalf("Read8: %v", err)
	}
	if lo != 0xBE {
		t.Errorf("Read8 = %#x, want 0xBE (little-endian low byte)", lo)
	}

	data, err := c.ReadRange(0x02000040, 4)
	if err != nil {
		t.Fatalf("ReadRange: %v", err)
	}
	if !bytes.Equal(data, []byte{0xBE, 0xBA, 0xFE, 0xCA}) {
		t.Errorf("ReadRange = %x, want bebafeca", data)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	c, _ := startTestServer(t)

	_, err := c.Read8(0x0)
	if err == nil {
		t.Fatal("Read8 of unmapped address succeeded")
	}
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *ServerError", err)
	}
	if se.Cmd != "read8" {
		t.Errorf("ServerError.Cmd = %q, want read8", se.Cmd)
	}
}

func TestPressRejectsUnknownButton(t *testing.T) {
	c, _ := startTestServer(t)

	err := c.Press("TURBO", 5)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("Press(TURBO) error = %v, want *ServerError", err)
	}
}

func TestRunFramesBlocksUntilComplete(t *testing.T) {
	c, _ := startTestServer(t)

	if err := c.RunFrames(5); err != nil {
		t.Fatalf("RunFrames: %v", err)
	}
	// The next exchange on the same connection still correlates cleanly.
	if _, err := c.Ping(); err != nil {
		t.Fatalf("Ping after RunFrames: %v", err)
	}
}

func TestScreenshot(t *testing.T) {
	c, _ := startTestServer(t)

	data, err := c.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if len(data) < 4 || data[1] != 'P' {
		t.Errorf("Screenshot returned %d bytes, want PNG data", len(data))
	}
}

func TestStates(t *testing.T) {
	c, _ := startTestServer(t)

	if err := c.Write8(0x02000000, 11); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if err := c.SaveState(2); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if err := c.Write8(0x02000000, 22); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if err := c.LoadState(2); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	got, err := c.Read8(0x02000000)
	if err != nil {
		t.Fatalf("Read8: %v", err)
	}
	if got != 11 {
		t.Errorf("byte after LoadState = %d, want 11", got)
	}
}
