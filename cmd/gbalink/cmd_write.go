package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type Write8Cmd struct {
	Addr  string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
	Value string `arg:"" help:"Value in decimal or 0x-prefixed hex"`
}

func (cmd *Write8Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	v, err := parseValue(cmd.Value, 8)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Write8(addr, uint8(v)); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("wrote 0x%02X to 0x%08X", v, addr))
	return nil
}

type Write16Cmd struct {
	Addr  string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
	Value string `arg:"" help:"Value in decimal or 0x-prefixed hex"`
}

func (cmd *Write16Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	v, err := parseValue(cmd.Value, 16)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Write16(addr, uint16(v)); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("wrote 0x%04X to 0x%08X", v, addr))
	return nil
}

type Write32Cmd struct {
	Addr  string `arg:"" help:"Address in decimal or 0x-prefixed hex"`
	Value string `arg:"" help:"Value in decimal or 0x-prefixed hex"`
}

func (cmd *Write32Cmd) Run(cli *CLI) error {
	addr, err := parseAddr(cmd.Addr)
	if err != nil {
		return err
	}
	v, err := parseValue(cmd.Value, 32)
	if err != nil {
		return err
	}
	c, err := newClient(cli)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Write32(addr, v); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("wrote 0x%08X to 0x%08X", v, addr))
	return nil
}
