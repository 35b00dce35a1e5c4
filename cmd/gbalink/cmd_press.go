package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type PressCmd struct {
	Button string `arg:"" predictor:"button" help:"Button name (A, B, SELECT, START, RIGHT, LEFT, UP, DOWN, R, L)"`
	Frames int    `help:"Number of frames to hold the button" default:"10"`
}

func (cmd *PressCmd) Run(cli *CLI) error {
	if cmd.Frames <= 0 {
		return fmt.Errorf("frames must be positive")
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Press(cmd.Button, cmd.Frames); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("holding %s for %d frames", cmd.Button, cmd.Frames))
	return nil
}

type KeysCmd struct{}

func (cmd *KeysCmd) Run(cli *CLI) error {
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	names, err := c.GetKeys()
	if err != nil {
		return err
	}
	ui.PrintKeys(names)
	return nil
}
