// Command rerep rewrites text with a regular expression.
//
//	rerep [-i] [-w] [--oniguruma] PATTERN REPLACEMENT [FILE...]
//
// With no FILE it reads stdin and writes stdout. Otherwise each FILE is
// rewritten to stdout, or in place with -w.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes rerep and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	printError(stderr, err)
	fmt.Fprint(stderr, cmd.UsageString())
	return exitUsage
}

// printError writes err to w behind an "error:" prefix, coloured when w is a
// terminal.
func printError(w io.Writer, err error) {
	c := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	fmt.Fprintf(w, "%s %v\n", c.Sprint("error:"), err)
}
