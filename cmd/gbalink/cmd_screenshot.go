package main

import (
	"fmt"
	"os"

	"github.com/gbalink/gbalink/internal/ui"
)

type ScreenshotCmd struct {
	Out string `help:"Output file" default:"screenshot.png"`
}

func (cmd *ScreenshotCmd) Run(cli *CLI) error {
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	data, err := c.Screenshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.Out, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", cmd.Out, err)
	}
	ui.PrintSuccess(fmt.Sprintf("saved %d bytes to %s", len(data), cmd.Out))
	return nil
}
