// Package ui provides formatted output utilities for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Color functions for consistent styling.
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Output is the destination for UI output.
// Defaults to os.Stdout but can be overridden for testing.
var Output io.Writer = os.Stdout

// PrintSuccess prints a success message with a checkmark.
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", Green("✓"), message)
}

// PrintError prints an error message with a cross.
func PrintError(message string) {
	fmt.Fprintf(Output, "%s %s\n", Red("✗"), message)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", Yellow("!"), message)
}

// PrintInfo prints an informational message.
func PrintInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", Cyan("·"), message)
}

// PrintKeys prints the currently asserted buttons.
func PrintKeys(names []string) {
	if len(names) == 0 {
		fmt.Fprintln(Output, Dim("(no buttons held)"))
		return
	}
	fmt.Fprintf(Output, "%s", Bold("Held:"))
	for _, n := range names {
		fmt.Fprintf(Output, " %s", Cyan(n))
	}
	fmt.Fprintln(Output)
}

// PrintHexDump prints memory bytes in the classic 16-per-row layout with
// the originating address in the left gutter.
func PrintHexDump(addr uint32, data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		fmt.Fprintf(Output, "%s ", Dim(fmt.Sprintf("%08X", addr+uint32(off))))
		for i, b := range row {
			if i == 8 {
				fmt.Fprint(Output, " ")
			}
			fmt.Fprintf(Output, " %02x", b)
		}
		fmt.Fprintln(Output)
	}
}
