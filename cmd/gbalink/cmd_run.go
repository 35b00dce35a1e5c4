package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type RunFramesCmd struct {
	Count int `arg:"" optional:"" help:"Number of frames to advance" default:"1"`
}

func (cmd *RunFramesCmd) Run(cli *CLI) error {
	if cmd.Count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.RunFrames(cmd.Count); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("advanced %d frames", cmd.Count))
	return nil
}
