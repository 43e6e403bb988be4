package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"go.dw1.io/regcompat"
	"go.dw1.io/regcompat/internal/report"
	"go.dw1.io/regcompat/internal/textfile"
)

type rewriter struct {
	opts   *options
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	source  string
	pattern *regcompat.Pattern
	codec   codec
}

// result is the outcome for one FILE. out is set only when the file is
// printed rather than rewritten in place.
type result struct {
	path    string
	out     []byte
	matches int
	changed bool
	code    int
	err     error
}

func (rw *rewriter) run(pattern, template string, files []string) error {
	var libOpts []regcompat.Option
	if rw.opts.timeout > 0 {
		libOpts = append(libOpts, regcompat.WithMatchTimeout(rw.opts.timeout))
	}

	rw.source = pattern
	guard, err := regcompat.Init(libOpts...)
	if err != nil {
		return err
	}
	defer guard.Close()

	rw.codec = codecs[rw.opts.encoding]
	rw.pattern, err = regcompat.Compile(pattern, rw.opts.flags())
	if err != nil {
		return rw.fail(exitCompile, fmt.Errorf("failed to compile pattern: %w", err))
	}

	if len(files) == 0 {
		return rw.stream(template)
	}

	results := rw.files(template, files)

	code := 0
	for _, res := range results {
		if res.err != nil {
			printError(rw.stderr, res.err)
			code = res.code
			continue
		}
		if res.out != nil {
			if _, err := rw.stdout.Write(res.out); err != nil {
				printError(rw.stderr, fmt.Errorf("failed to write output: %w", err))
				code = exitWrite
			}
		}
	}

	if rw.opts.report {
		rw.summarize(results, code)
	}
	if code != 0 {
		return &exitError{code: code}
	}

	return nil
}

// stream rewrites stdin to stdout.
func (rw *rewriter) stream(template string) error {
	data, err := io.ReadAll(rw.stdin)
	if err != nil {
		return rw.fail(exitStdinRead, fmt.Errorf("failed to read stdin: %w", err))
	}

	r, bom, err := rw.codec.decode(data)
	if err != nil {
		return rw.fail(exitStdinRead, fmt.Errorf("failed to decode stdin: %w", err))
	}

	out, _, err := rw.replace(r, template)
	if err != nil {
		return rw.fail(exitStdinReplace, fmt.Errorf("failed to replace stdin: %w", err))
	}

	enc, err := rw.codec.encode(out, bom)
	if err != nil {
		return rw.fail(exitStdinReplace, fmt.Errorf("failed to encode output: %w", err))
	}

	if _, err := rw.stdout.Write(enc); err != nil {
		return rw.fail(exitWrite, fmt.Errorf("failed to write output: %w", err))
	}

	return nil
}

// files rewrites every path concurrently. Results keep argument order.
func (rw *rewriter) files(template string, paths []string) []result {
	results := make([]result, len(paths))

	var g errgroup.Group
	g.SetLimit(min(rw.opts.jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			results[i] = rw.file(path, template)
			return nil
		})
	}
	g.Wait()

	return results
}

func (rw *rewriter) file(path, template string) result {
	res := result{path: path}
	failed := func(code int, format string, err error) result {
		res.code = code
		res.err = fmt.Errorf(format+": %w", path, err)
		return res
	}

	in, err := textfile.Open(path)
	if err != nil {
		return failed(exitOpen, "failed to open file for reading: %s", err)
	}

	var perm os.FileMode = 0o644
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	data, err := in.ReadAll()
	if err != nil {
		in.Close()
		return failed(exitRead, "failed to read file: %s", err)
	}

	r, bom, err := rw.codec.decode(data)
	if err != nil {
		in.Close()
		return failed(exitRead, "failed to decode file: %s", err)
	}

	out, n, err := rw.replace(r, template)
	if err != nil {
		in.Close()
		return failed(exitReplace, "failed to replace file: %s", err)
	}

	// enc is a fresh copy, so the mapping can go before the same path is
	// truncated for writing.
	enc, err := rw.codec.encode(out, bom)
	in.Close()
	if err != nil {
		return failed(exitReplace, "failed to encode file: %s", err)
	}

	res.matches = n
	res.changed = n > 0
	if !rw.opts.write {
		res.out = enc
		return res
	}

	w, err := textfile.Create(path, len(enc), perm)
	if err != nil {
		return failed(exitOpenWrite, "failed to open file for writing: %s", err)
	}
	if _, err := w.Write(enc); err != nil {
		w.Close()
		return failed(exitWrite, "failed to write file: %s", err)
	}
	if err := w.Sync(); err != nil {
		w.Close()
		return failed(exitWrite, "failed to write file: %s", err)
	}
	if err := w.Close(); err != nil {
		return failed(exitWrite, "failed to write file: %s", err)
	}

	return res
}

// replace rewrites r and counts the rewritten matches.
func (rw *rewriter) replace(r regcompat.Range, template string) (string, int, error) {
	return rw.pattern.ReplaceCount(r, template, rw.opts.mode())
}

func (rw *rewriter) fail(code int, err error) error {
	printError(rw.stderr, err)
	if rw.opts.report {
		rw.summarize(nil, code)
	}

	return &exitError{code: code}
}

func (rw *rewriter) summarize(results []result, code int) {
	s := report.Summary{
		Pattern:  rw.source,
		Dialect:  rw.dialect(),
		ExitCode: code,
	}
	for _, res := range results {
		f := report.File{
			Path:    res.path,
			Matches: res.matches,
			Changed: res.changed,
			Code:    res.code,
		}
		if res.err != nil {
			f.Error = res.err.Error()
		}
		s.Files = append(s.Files, f)
	}

	if err := report.Write(rw.stderr, s); err != nil {
		printError(rw.stderr, fmt.Errorf("failed to write report: %w", err))
	}
}

func (rw *rewriter) dialect() string {
	if rw.pattern != nil {
		return rw.pattern.Dialect().String()
	}
	if rw.opts.native || rw.opts.oniguruma {
		return regcompat.DialectNative.String()
	}

	return regcompat.DialectECMAScript.String()
}
