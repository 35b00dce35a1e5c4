package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type Read8Cmd struct {
	Addr string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
}

func (cmd *Read8Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	v, err := c.Read8(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Output, "0x%08X = %d (0x%02X)\n", addr, v, v)
	return nil
}

type Read16Cmd struct {
	Addr string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
}

func (cmd *Read16Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	v, err := c.Read16(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Output, "0x%08X = %d (0x%04X)\n", addr, v, v)
	return nil
}

type Read32Cmd struct {
	Addr string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
}

func (cmd *Read32Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	v, err := c.Read32(addr)
	if err != nil {
		return err
	}
	fmt.Fprintf(ui.Output, "0x%08X = %d (0x%08X)\n", addr, v, v)
	return nil
}

type ReadRangeCmd struct {
	Addr   string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
	Length int    `arg:"" help:"Number of bytes to read"`
}

func (cmd *ReadRangeCmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	if cmd.Length <= 0 {
		return fmt.Errorf("length must be positive")
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	data, err := c.ReadRange(addr, cmd.Length)
	if err != nil {
		return err
	}
	ui.PrintHexDump(addr, data)
	return nil
}
