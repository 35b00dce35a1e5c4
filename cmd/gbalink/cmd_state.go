package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type SaveStateCmd struct {
	Slot int `help:"Save slot (1-9)" default:"1"`
}

func (cmd *SaveStateCmd) Run(cli *CLI) error {
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.SaveState(cmd.Slot); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("saved state to slot %d", cmd.Slot))
	return nil
}

type LoadStateCmd struct {
	Slot int `help:"Save slot (1-9)" default:"1"`
}

func (cmd *LoadStateCmd) Run(cli *CLI) error {
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.LoadState(cmd.Slot); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("loaded state from slot %d", cmd.Slot))
	return nil
}
