package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Colors
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// success prints a green check line to stdout.
func success(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// warn prints a yellow warning line to stderr.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("!"), fmt.Sprintf(format, args...))
}
