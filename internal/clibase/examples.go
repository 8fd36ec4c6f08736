// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrPrintedAndExitOK asks the caller to print examples and exit 0.
	ErrPrintedAndExitOK = errors.New("examples requested")
	// ErrUsage marks argument errors that print usage and exit 1.
	ErrUsage = errors.New("usage")
)

// Example is one commented command line in a quickstart.
type Example struct {
	Note    string
	Command string
}

// PrintExamples writes an optional intro line and each example as a
// "# note" line above its indented command.
func PrintExamples(out io.Writer, name, intro string, examples []Example) {
	if out == nil {
		return
	}
	fmt.Fprintf(out, "%s quickstart\n\n", name)
	if intro != "" {
		fmt.Fprintf(out, "%s\n\n", intro)
	}
	for i, ex := range examples {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if ex.Note != "" {
			fmt.Fprintf(out, "  # %s\n", ex.Note)
		}
		fmt.Fprintf(out, "  %s\n", ex.Command)
	}
	fmt.Fprintf(out, "\nRun %s --help for every flag.\n", name)
}
