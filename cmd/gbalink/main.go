package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/posener/complete"
	"github.com/willabides/kongplete"
)

var version = "dev"

type CLI struct {
	Addr string `help:"Server address (host:port). Defaults to the configured listen address." short:"a"`

	Serve ServeCmd `cmd:"" help:"Run a development server backed by an in-memory host"`

	Ping       PingCmd       `cmd:"" help:"Check that the server is reachable"`
	Read8      Read8Cmd      `cmd:"" name:"read8" help:"Read one byte from emulator memory"`
	Read16     Read16Cmd     `cmd:"" name:"read16" help:"Read a 16-bit value from emulator memory"`
	Read32     Read32Cmd     `cmd:"" name:"read32" help:"Read a 32-bit value from emulator memory"`
	ReadRange  ReadRangeCmd  `cmd:"" name:"readrange" help:"Hex-dump a range of emulator memory"`
	Write8     Write8Cmd     `cmd:"" name:"write8" help:"Write one byte to emulator memory"`
	Write16    Write16Cmd    `cmd:"" name:"write16" help:"Write a 16-bit value to emulator memory"`
	Write32    Write32Cmd    `cmd:"" name:"write32" help:"Write a 32-bit value to emulator memory"`
	Press      PressCmd      `cmd:"" help:"Hold a button for a number of frames"`
	Keys       KeysCmd       `cmd:"" help:"Show currently held buttons"`
	Screenshot ScreenshotCmd `cmd:"" help:"Capture the current frame to a file"`
	SaveState  SaveStateCmd  `cmd:"" name:"save-state" help:"Save emulator state to a slot"`
	LoadState  LoadStateCmd  `cmd:"" name:"load-state" help:"Load emulator state from a slot"`
	RunFrames  RunFramesCmd  `cmd:"" name:"run-frames" help:"Advance emulation by N frames"`

	Version            VersionCmd                   `cmd:"" help:"Show version"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

func main() {
	cli := CLI{}
	parser := kong.Must(&cli,
		kong.Name("gbalink"),
		kong.Description("Remote control link for frame-stepped GBA emulators"),
		kong.UsageOnError(),
	)

	kongplete.Complete(parser,
		kongplete.WithPredictor("button", complete.PredictSet(
			"A", "B", "SELECT", "START", "RIGHT", "LEFT", "UP", "DOWN", "R", "L",
		)),
	)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&cli); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
