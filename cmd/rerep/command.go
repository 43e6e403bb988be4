package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go.dw1.io/regcompat"
	"go.dw1.io/regcompat/internal/config"
)

type options struct {
	icase      bool
	write      bool
	native     bool
	oniguruma  bool
	ecmascript bool
	first      bool
	encoding   string
	jobs       int
	timeout    time.Duration
	config     string
	report     bool
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rerep [flags] PATTERN REPLACEMENT [FILE...]",
		Short: "Rewrite text with a regular expression",
		Long: `rerep replaces every match of PATTERN with REPLACEMENT.

With no FILE it reads stdin and writes stdout. Otherwise each FILE is
rewritten to stdout, or in place with -w. Flags must precede PATTERN.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.resolve(cmd); err != nil {
				return err
			}

			r := &rewriter{
				opts:   opts,
				stdin:  stdin,
				stdout: stdout,
				stderr: stderr,
			}
			return r.run(args[0], args[1], args[2:])
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.BoolVarP(&opts.icase, "icase", "i", false, "case-insensitive matching")
	flags.BoolVarP(&opts.write, "write", "w", false, "write changes in place to each FILE")
	flags.BoolVar(&opts.oniguruma, "oniguruma", false, "use the Oniguruma/Ruby pattern dialect")
	flags.BoolVar(&opts.native, "native", false, "alias of --oniguruma")
	flags.BoolVar(&opts.ecmascript, "ecmascript", false, "use the ECMAScript pattern dialect (default)")
	flags.BoolVar(&opts.first, "first", false, "replace only the first match of each input")
	flags.StringVar(&opts.encoding, "encoding", "utf-8", "input and output encoding (utf-8|utf-16le|utf-16be)")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files processed concurrently")
	flags.DurationVar(&opts.timeout, "timeout", 0, "match timeout per search (0 keeps the engine default)")
	flags.StringVar(&opts.config, "config", os.Getenv(config.EnvPath), "config file (TOML or YAML); defaults to $"+config.EnvPath)
	flags.BoolVar(&opts.report, "report", false, "print a JSON summary to stderr")

	return cmd
}

// resolve merges the config file under the command line flags and validates
// the result.
func (o *options) resolve(cmd *cobra.Command) error {
	if o.config != "" {
		cfg, err := config.Load(o.config)
		if err != nil {
			return err
		}
		if err := o.apply(cmd, cfg); err != nil {
			return err
		}
	}

	o.encoding = strings.ToLower(o.encoding)
	if _, ok := codecs[o.encoding]; !ok {
		return fmt.Errorf("unsupported encoding %q", o.encoding)
	}
	if o.jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", o.jobs)
	}
	if o.timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}

	return nil
}

func (o *options) apply(cmd *cobra.Command, cfg config.Config) error {
	flags := cmd.Flags()
	use := func(key, flag string) bool {
		return cfg.Set[key] && !flags.Changed(flag)
	}

	if use("icase", "icase") {
		o.icase = cfg.ICase
	}
	if use("write", "write") {
		o.write = cfg.Write
	}
	if use("first", "first") {
		o.first = cfg.First
	}
	if use("encoding", "encoding") {
		o.encoding = cfg.Encoding
	}
	if use("jobs", "jobs") {
		o.jobs = cfg.Jobs
	}
	if use("timeout", "timeout") {
		o.timeout = cfg.Timeout
	}
	if use("report", "report") {
		o.report = cfg.Report
	}

	dialectFlags := flags.Changed("oniguruma") || flags.Changed("native") || flags.Changed("ecmascript")
	if cfg.Set["dialect"] && !dialectFlags {
		switch strings.ToLower(cfg.Dialect) {
		case "native", "oniguruma", "ruby":
			o.native = true
		case "ecmascript", "":
			o.ecmascript = true
		default:
			return fmt.Errorf("config: unknown dialect %q", cfg.Dialect)
		}
	}

	return nil
}

func (o *options) flags() regcompat.Flag {
	var f regcompat.Flag
	if o.icase {
		f |= regcompat.ICase
	}
	if o.native || o.oniguruma {
		f |= regcompat.Native
	}
	if o.ecmascript {
		f |= regcompat.ECMAScript
	}

	return f
}

func (o *options) mode() regcompat.Mode {
	if o.first {
		return regcompat.ReplaceFirst
	}

	return regcompat.ReplaceAll
}
