package main

import (
	"fmt"
	"strconv"

	"github.com/gbalink/gbalink/internal/client"
	"github.com/gbalink/gbalink/internal/config"
)

func loadConfig() (*config.Config, error) {
	paths, err := config.GetPaths()
	if err != nil {
		return nil, err
	}
	return config.Load(paths.Config)
}

func resolveAddr(cli *CLI) (string, error) {
	if cli.Addr != "" {
		return cli.Addr, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.GetListen(), nil
}

func newClient(cli *CLI) (*client.Client, error) {
	addr, err := resolveAddr(cli)
	if err != nil {
		return nil, err
	}
	c := client.New(addr)
	if err := c.Connect(); err != nil {
		return nil, NewExitError(1, "cannot reach server at %s: %v", addr, err)
	}
	return c, nil
}

// parseAddr parses a memory address given in decimal or 0x-prefixed hex.
func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint32(v), nil
}

// parseValue parses an integer value in decimal or 0x-prefixed hex,
// rejecting anything that does not fit in the given number of bits.
func parseValue(s string, bits int) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %d-bit value %q", bits, s)
	}
	return uint32(v), nil
}
