package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"go.dw1.io/regcompat/internal/config"
	"go.dw1.io/regcompat/internal/report"
)

type output struct {
	code   int
	stdout string
	stderr string
}

func rerep(t *testing.T, stdin string, args ...string) output {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return output{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestStdin(t *testing.T) {
	got := rerep(t, "me@host, you@there\n", `(\w+)@(\w+)`, "$2 at $1")
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "host at me, there at you\n", got.stdout)
	require.Empty(t, got.stderr)
}

func TestStdinNoMatch(t *testing.T) {
	got := rerep(t, "unchanged\n", `zzz`, "x")
	require.Equal(t, 0, got.code)
	require.Equal(t, "unchanged\n", got.stdout)
}

func TestFlags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		args []string
		want string
	}{
		{"icase", "Hello hello", []string{"-i", "HELLO", "bye"}, "bye bye"},
		{"first", "a a a", []string{"--first", "a", "b"}, "b a a"},
		{"native", "aabbc", []string{"--oniguruma", `(?<c>\w)\k<c>`, `$<c>`}, "abc"},
		{"native alias", "aabbc", []string{"--native", `(\w)\1`, "${1}"}, "abc"},
		{"ecmascript", "aabbc", []string{"--ecmascript", `(\w)\1`, "$1"}, "abc"},
		{"dash pattern", "a-b", []string{"--", "-", "+"}, "a+b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rerep(t, tt.in, tt.args...)
			require.Equal(t, 0, got.code, got.stderr)
			require.Equal(t, tt.want, got.stdout)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"only-pattern"},
		{"--bogus", "a", "b"},
		{"--encoding", "latin1", "a", "b"},
		{"--jobs", "0", "a", "b"},
		{"--timeout", "-1s", "a", "b"},
	} {
		got := rerep(t, "", args...)
		require.Equal(t, exitUsage, got.code, "args %q", args)
		require.Contains(t, got.stderr, "error:")
		require.Contains(t, got.stderr, "Usage:")
	}
}

func TestCompileErrors(t *testing.T) {
	got := rerep(t, "x", "(a", "b")
	require.Equal(t, exitCompile, got.code)
	require.Contains(t, got.stderr, "error: failed to compile pattern")
	require.Contains(t, got.stderr, "paren")
	require.Empty(t, got.stdout)

	got = rerep(t, "x", "--native", "--ecmascript", "a", "b")
	require.Equal(t, exitCompile, got.code)
}

func TestStdinReplaceError(t *testing.T) {
	got := rerep(t, "x", "x", "$9")
	require.Equal(t, exitStdinReplace, got.code)
	require.Contains(t, got.stderr, "failed to replace stdin")
}

func TestFilesToStdout(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "one two\n")
	b := writeFile(t, dir, "b.txt", "two three\n")
	empty := writeFile(t, dir, "empty.txt", "")

	got := rerep(t, "", "two", "2", a, empty, b)
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "one 2\n2 three\n", got.stdout)
	require.Equal(t, "one two\n", readFile(t, a))
}

func TestWriteInPlace(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 8)
	for i := range paths {
		paths[i] = writeFile(t, dir, string(rune('a'+i))+".txt", "key=value\nother=thing\n")
	}

	args := append([]string{"-w", "--native", "--jobs", "3", `^(\w+)=(\w+)$`, "$2=$1"}, paths...)
	got := rerep(t, "", args...)
	require.Equal(t, 0, got.code, got.stderr)
	require.Empty(t, got.stdout)

	for _, path := range paths {
		require.Equal(t, "value=key\nthing=other\n", readFile(t, path))
	}
}

func TestWriteShrinksAndEmpties(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "xxxxxxxx")

	got := rerep(t, "", "-w", "x+", "", path)
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "", readFile(t, path))
}

func TestLastFailureWins(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.txt", "abc\n")
	missing := filepath.Join(dir, "missing.txt")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	got := rerep(t, "", "b", "B", missing, ok, sub)
	require.Equal(t, exitRead, got.code)
	require.Equal(t, "aBc\n", got.stdout)
	require.Contains(t, got.stderr, "failed to open file for reading: "+missing)
	require.Contains(t, got.stderr, "failed to read file: "+sub)

	got = rerep(t, "", "b", "B", sub, ok, missing)
	require.Equal(t, exitOpen, got.code)
	require.Equal(t, "aBc\n", got.stdout)
}

func TestFileReplaceError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "abc")

	got := rerep(t, "", "-w", "b", "${nope}", path)
	require.Equal(t, exitReplace, got.code)
	require.Equal(t, "abc", readFile(t, path))
}

func TestUTF16(t *testing.T) {
	le := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	in, err := le.NewEncoder().String("grün über\n")
	require.NoError(t, err)

	got := rerep(t, in, "--encoding", "utf-16le", "ü", "ue")
	require.Equal(t, 0, got.code, got.stderr)

	out, err := le.NewDecoder().String(got.stdout)
	require.NoError(t, err)
	require.Equal(t, "gruen ueber\n", out)
}

func TestUTF16KeepsBOM(t *testing.T) {
	be := unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	in, err := be.NewEncoder().Bytes([]byte("a😀b"))
	require.NoError(t, err)
	require.Equal(t, bomBE, in[:2])

	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", string(in))

	got := rerep(t, "", "-w", "--encoding", "utf-16be", `a(.)b`, "[$1]", path)
	require.Equal(t, 0, got.code, got.stderr)

	data := []byte(readFile(t, path))
	require.Equal(t, bomBE, data[:2])
	out, err := be.NewDecoder().Bytes(data)
	require.NoError(t, err)
	require.Equal(t, "[😀]", string(out))
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	toml := writeFile(t, dir, "rerep.toml", "icase = true\nfirst = true\n")

	got := rerep(t, "A a", "--config", toml, "a", "b")
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "b a", got.stdout)

	yaml := writeFile(t, dir, "rerep.yaml", "dialect: native\n")
	t.Setenv(config.EnvPath, yaml)

	got = rerep(t, "ab", `(?<x>a)|(?<x>b)`, "-")
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "--", got.stdout)

	// Command line flags win over the file. Duplicate names are a native
	// extension.
	got = rerep(t, "ab", "--ecmascript", `(?<x>a)|(?<x>b)`, "-")
	require.Equal(t, exitCompile, got.code)
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"unknown.toml": "colour = true\n",
		"dialect.toml": `dialect = "perl"` + "\n",
		"format.ini":   "icase=1\n",
	} {
		path := writeFile(t, dir, name, content)
		got := rerep(t, "a", "--config", path, "a", "b")
		require.Equal(t, exitUsage, got.code, name)
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x x\n")
	b := writeFile(t, dir, "b.txt", "y\n")

	got := rerep(t, "", "--report", "-w", "--native", "x", "z", a, b)
	require.Equal(t, 0, got.code, got.stderr)

	var s report.Summary
	require.NoError(t, json.Unmarshal([]byte(got.stderr), &s))
	require.Equal(t, "x", s.Pattern)
	require.Equal(t, "native", s.Dialect)
	require.Equal(t, []report.File{
		{Path: a, Matches: 2, Changed: true},
		{Path: b},
	}, s.Files)
	require.Equal(t, "z z\n", readFile(t, a))
}

func TestReportCountsRewrittenMatches(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x x x\n")
	b := writeFile(t, dir, "b.txt", "ab\n")

	got := rerep(t, "", "--report", "--first", "x", "z", a)
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "z x x\n", got.stdout)

	var s report.Summary
	require.NoError(t, json.Unmarshal([]byte(got.stderr), &s))
	require.Equal(t, []report.File{{Path: a, Matches: 1, Changed: true}}, s.Files)

	// Empty matches are rewritten and counted like any other.
	got = rerep(t, "", "--report", "y*", "-", b)
	require.Equal(t, 0, got.code, got.stderr)
	require.Equal(t, "-a-b-\n-", got.stdout)

	s = report.Summary{}
	require.NoError(t, json.Unmarshal([]byte(got.stderr), &s))
	require.Equal(t, []report.File{{Path: b, Matches: 4, Changed: true}}, s.Files)
}

func TestReportOnCompileError(t *testing.T) {
	got := rerep(t, "", "--report", "[a", "b")
	require.Equal(t, exitCompile, got.code)

	lines := strings.Split(strings.TrimSpace(got.stderr), "\n")
	var s report.Summary
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &s))
	require.Equal(t, exitCompile, s.ExitCode)
	require.Equal(t, "[a", s.Pattern)
	require.Empty(t, s.Files)
}
