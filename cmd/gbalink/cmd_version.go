package main

import (
	"fmt"

	"github.com/gbalink/gbalink/internal/ui"
)

type VersionCmd struct{}

func (cmd *VersionCmd) Run(cli *CLI) error {
	fmt.Fprintf(ui.Output, "gbalink %s\n", version)
	return nil
}
