package regcompat

import "slices"

// Span locates one capture group within the searched Range. Offsets are in
// the Range's elements. An unmatched group has Matched false, Offset -1 and
// Length 0.
type Span struct {
	Matched bool
	Offset  int
	Length  int
}

// End returns the offset just past the span, or -1 if it did not match.
func (s Span) End() int {
	if !s.Matched {
		return -1
	}

	return s.Offset + s.Length
}

var unmatched = Span{Offset: -1}

// Match is the result of a successful search. Group 0 is the whole match.
// Text is read from the searched Range on demand.
type Match struct {
	rng     Range
	spans   []Span
	pattern *Pattern
}

func newMatch(p *Pattern, r Range, spans []Span) *Match {
	return &Match{rng: r, spans: spans, pattern: p}
}

// Len returns the number of groups including group 0.
func (m *Match) Len() int {
	return len(m.spans)
}

// Group returns the span of group i. Out-of-range indexes yield an unmatched
// span.
func (m *Match) Group(i int) Span {
	if i < 0 || i >= len(m.spans) {
		return unmatched
	}

	return m.spans[i]
}

// Span returns the span of the whole match.
func (m *Match) Span() Span {
	return m.spans[0]
}

// Named returns the span of the group called name. When several groups share
// the name, the last one that matched wins. The boolean is false when the
// pattern has no such group.
func (m *Match) Named(name string) (Span, bool) {
	idx := m.pattern.groupsNamed(name)
	if len(idx) == 0 {
		return unmatched, false
	}

	for _, i := range slices.Backward(idx) {
		if m.spans[i].Matched {
			return m.spans[i], true
		}
	}

	return unmatched, true
}

// Text returns the text of group i, or "" if it did not match.
func (m *Match) Text(i int) string {
	s := m.Group(i)
	if !s.Matched {
		return ""
	}

	return m.rng.slice(s.Offset, s.End())
}

// NamedText returns the text of the group called name.
func (m *Match) NamedText(name string) string {
	s, _ := m.Named(name)
	if !s.Matched {
		return ""
	}

	return m.rng.slice(s.Offset, s.End())
}

// Runes returns the text of group i as runes. For a wide Range the result
// aliases the input.
func (m *Match) Runes(i int) []rune {
	s := m.Group(i)
	if !s.Matched {
		return nil
	}
	if m.rng.wide {
		return m.rng.runes[s.Offset:s.End():s.End()]
	}

	return []rune(m.rng.text[s.Offset:s.End()])
}

// Prefix returns the part of the searched Range before the match.
func (m *Match) Prefix() Range {
	return m.rng.Sub(0, m.spans[0].Offset)
}

// Suffix returns the part of the searched Range after the match.
func (m *Match) Suffix() Range {
	return m.rng.Sub(m.spans[0].End(), m.rng.Len())
}

// Range returns the searched Range.
func (m *Match) Range() Range {
	return m.rng
}

// Pattern returns the pattern that produced the match.
func (m *Match) Pattern() *Pattern {
	return m.pattern
}

// Index returns the match and its groups as offset pairs in the style of
// the standard library's FindSubmatchIndex.
func (m *Match) Index() []int {
	out := make([]int, 0, 2*len(m.spans))
	for _, s := range m.spans {
		if s.Matched {
			out = append(out, s.Offset, s.End())
		} else {
			out = append(out, -1, -1)
		}
	}

	return out
}

// Strings returns the text of every group.
func (m *Match) Strings() []string {
	out := make([]string, len(m.spans))
	for i := range m.spans {
		out[i] = m.Text(i)
	}

	return out
}
