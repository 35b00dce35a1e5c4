package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gbalink/gbalink/internal/config"
	"github.com/gbalink/gbalink/internal/host"
	"github.com/gbalink/gbalink/internal/logging"
	"github.com/gbalink/gbalink/internal/server"
	"github.com/gbalink/gbalink/internal/ui"
)

// ServeCmd runs a standalone server backed by MemHost. It exists for
// development and integration testing; real deployments embed the server
// package inside an emulator frontend and drive Tick from its frame loop.
type ServeCmd struct {
	Listen    string `help:"Listen address (host:port). Overrides the configured address."`
	FrameRate int    `help:"Simulated frames per second. Overrides the configured rate."`
}

func (cmd *ServeCmd) Run(cli *CLI) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	paths, err := config.GetPaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	listen := cfg.GetListen()
	if cmd.Listen != "" {
		listen = cmd.Listen
	}
	rate := cfg.GetFrameRate()
	if cmd.FrameRate > 0 {
		rate = cmd.FrameRate
	}

	logWriter := logging.NewRotatingWriter(logging.DefaultConfig(paths.ServerLog))
	defer logWriter.Close()

	h := host.NewMemHost()
	s := server.New(h, server.Params{
		HoldFrames:   cfg.GetHoldFrames(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}, logWriter)

	if err := s.Start(listen); err != nil {
		return NewExitError(1, "cannot listen on %s: %v", listen, err)
	}
	defer s.Stop()

	ui.PrintInfo(fmt.Sprintf("serving on %s at %d fps (log: %s)", s.Addr(), rate, paths.ServerLog))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ui.PrintInfo("shutting down")
			return nil
		case <-ticker.C:
			h.AdvanceFrame()
			s.Tick()
		}
	}
}
