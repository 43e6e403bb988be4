// Command refind is an interactive regular expression find/replace dialog
// over a file or stdin.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"go.dw1.io/regcompat"
	"go.dw1.io/regcompat/internal/textfile"
	"go.dw1.io/regcompat/internal/tui"
)

type options struct {
	pattern     string
	replacement string
	icase       bool
	ecmascript  bool
	write       bool
}

// runProgram drives the dialog until the user quits.
var runProgram = func(m *tui.Model, fromStdin bool, out io.Writer) error {
	opts := []tea.ProgramOption{tea.WithOutput(out), tea.WithAltScreen()}
	if fromStdin {
		opts = append(opts, tea.WithInputTTY())
	}

	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:           "refind [flags] [FILE]",
		Short:         "Find and replace interactively with a regular expression",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return edit(opts, args, stdin, stdout)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.pattern, "pattern", "p", "", "initial pattern")
	flags.StringVarP(&opts.replacement, "replace", "r", "", "initial replacement")
	flags.BoolVarP(&opts.icase, "icase", "i", false, "case-insensitive matching")
	flags.BoolVar(&opts.ecmascript, "ecmascript", false, "start in the ECMAScript dialect instead of native")
	flags.BoolVarP(&opts.write, "write", "w", false, "write changes back to FILE")

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		printError(stderr, err)
		return 1
	}

	return 0
}

func edit(opts *options, args []string, stdin io.Reader, stdout io.Writer) error {
	if opts.write && len(args) == 0 {
		return errors.New("--write needs a FILE")
	}

	text, err := readInput(args, stdin)
	if err != nil {
		return err
	}

	guard, err := regcompat.Init()
	if err != nil {
		return err
	}
	defer guard.Close()

	flags := regcompat.Native
	if opts.ecmascript {
		flags = regcompat.ECMAScript
	}
	if opts.icase {
		flags |= regcompat.ICase
	}

	m := tui.New(text,
		tui.WithPattern(opts.pattern),
		tui.WithReplacement(opts.replacement),
		tui.WithFlags(flags),
	)
	if err := runProgram(m, len(args) == 0, stdout); err != nil {
		return err
	}

	if !m.Changed() {
		return nil
	}
	if opts.write {
		return writeBack(args[0], m.Text())
	}

	_, err = io.WriteString(stdout, m.Text())
	return err
}

func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	f, err := textfile.Open(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to open file for reading: %w", err)
	}
	defer f.Close()

	data, err := f.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	// The mapping goes away on Close.
	return string(data), nil
}

func writeBack(path, text string) error {
	var perm os.FileMode = 0o644
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := textfile.Create(path, len(text), perm)
	if err != nil {
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	return f.Close()
}

func printError(w io.Writer, err error) {
	c := color.New(color.FgRed, color.Bold)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	fmt.Fprintf(w, "%s %v\n", c.Sprint("error:"), err)
}
