package main

import "github.com/gbalink/gbalink/internal/ui"

type PingCmd struct{}

func (cmd *PingCmd) Run(cli *CLI) error {
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	reply, err := c.Ping()
	if err != nil {
		return NewExitError(1, "ping failed: %v", err)
	}
	ui.PrintSuccess(reply)
	return nil
}
