package regcompat

import (
	"sync"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"
)

// Pattern is a compiled pattern. It is immutable and safe for concurrent
// use; engines keep their per-search state outside of it.
type Pattern struct {
	source  string
	flags   Flag
	dialect Dialect
	tr      translation

	back *regexp2.Regexp
	core *coregex.Regex

	// Whole-range programs, built on first use of Match.
	fullOnce sync.Once
	full     *regexp2.Regexp
	fullCore *coregex.Regex
	fullErr  error
}

func (p *Pattern) compileAnchored() {
	expr := `\A(?:` + p.tr.Expr + `)\z`

	full, err := compileBacktrack(expr, p.dialect, p.flags)
	if err != nil {
		p.fullErr = engineError(err, p.source, p.dialect)
		return
	}
	full.MatchTimeout = p.back.MatchTimeout
	p.full = full

	if p.core != nil {
		if core, err := coregex.Compile(corePrefix(p.dialect, p.flags) + expr); err == nil {
			p.fullCore = core
		}
	}
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.source
}

// Flags returns the flags the pattern was compiled with.
func (p *Pattern) Flags() Flag {
	return p.flags
}

// Dialect returns the dialect the pattern was compiled from.
func (p *Pattern) Dialect() Dialect {
	return p.dialect
}

// Expr returns the translated expression run by the backtracking engine.
func (p *Pattern) Expr() string {
	return p.tr.Expr
}

// NumSubexp returns the number of capture groups.
func (p *Pattern) NumSubexp() int {
	return p.tr.Groups
}

// SubexpNames returns the group names indexed by group number. names[0] and
// unnamed groups are "".
func (p *Pattern) SubexpNames() []string {
	names := make([]string, len(p.tr.Names))
	copy(names, p.tr.Names)
	return names
}

// SubexpIndex returns the number of the last group called name, or -1.
func (p *Pattern) SubexpIndex(name string) int {
	idx := p.groupsNamed(name)
	if len(idx) == 0 {
		return -1
	}

	return idx[len(idx)-1]
}

func (p *Pattern) groupsNamed(name string) []int {
	if name == "" {
		return nil
	}

	var idx []int
	for i, n := range p.tr.Names {
		if n == name {
			idx = append(idx, i)
		}
	}

	return idx
}

// MatchString reports whether s contains a match. Errors count as no match.
func (p *Pattern) MatchString(s string) bool {
	m, err := p.Search(Text(s), 0)
	return err == nil && m != nil
}

// FindString returns the text of the leftmost match in s.
func (p *Pattern) FindString(s string) string {
	m, err := p.Search(Text(s), 0)
	if err != nil || m == nil {
		return ""
	}

	return m.Text(0)
}

// FindStringIndex returns the byte offsets of the leftmost match in s.
func (p *Pattern) FindStringIndex(s string) []int {
	m, err := p.Search(Text(s), 0)
	if err != nil || m == nil {
		return nil
	}

	return m.Index()[:2]
}

// FindStringSubmatch returns the text of the leftmost match in s and of its
// groups.
func (p *Pattern) FindStringSubmatch(s string) []string {
	m, err := p.Search(Text(s), 0)
	if err != nil || m == nil {
		return nil
	}

	return m.Strings()
}

// FindStringSubmatchIndex returns the byte offset pairs of the leftmost
// match in s and of its groups.
func (p *Pattern) FindStringSubmatchIndex(s string) []int {
	m, err := p.Search(Text(s), 0)
	if err != nil || m == nil {
		return nil
	}

	return m.Index()
}

// FindAllString returns up to n successive matches in s; n < 0 means all.
func (p *Pattern) FindAllString(s string, n int) []string {
	var out []string
	for m, err := range p.All(Text(s)) {
		if err != nil || (n >= 0 && len(out) >= n) {
			break
		}
		out = append(out, m.Text(0))
	}

	return out
}

// FindAllStringIndex is FindAllString returning byte offset pairs.
func (p *Pattern) FindAllStringIndex(s string, n int) [][]int {
	var out [][]int
	for m, err := range p.All(Text(s)) {
		if err != nil || (n >= 0 && len(out) >= n) {
			break
		}
		out = append(out, m.Index()[:2])
	}

	return out
}

// ReplaceAllString replaces every match in src with the expansion of repl.
// On any error src is returned unchanged.
func (p *Pattern) ReplaceAllString(src, repl string) string {
	out, err := p.Replace(Text(src), repl, ReplaceAll)
	if err != nil {
		return src
	}

	return out
}

// Split slices s around the matches of p, like regexp.Regexp.Split.
func (p *Pattern) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}

	var parts []string
	beg, end := 0, 0
	for m, err := range p.All(Text(s)) {
		if err != nil || (n > 0 && len(parts) == n-1) {
			break
		}

		span := m.Span()
		end = span.Offset
		if span.End() != 0 {
			parts = append(parts, s[beg:end])
		}
		beg = span.End()
	}

	if end != len(s) {
		parts = append(parts, s[beg:])
	}

	return parts
}

// MatchString compiles pattern with flags and reports whether s contains a
// match.
func MatchString(pattern string, flags Flag, s string) (bool, error) {
	p, err := Compile(pattern, flags)
	if err != nil {
		return false, err
	}

	m, err := p.Search(Text(s), 0)
	return m != nil, err
}

// QuoteMeta escapes all metacharacters in s. The result matches s literally
// in either dialect.
func QuoteMeta(s string) string {
	return coregex.QuoteMeta(s)
}
