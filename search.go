package regcompat

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Search returns the leftmost match in r that starts at or after start, or
// nil if there is none. start is clamped to [0, r.Len()], and a narrow start
// that falls inside an encoded character moves to the next one. Text before
// start stays visible to anchors, word boundaries and look-behind; use
// [Range.Sub] to hide it.
func (p *Pattern) Search(r Range, start int) (*Match, error) {
	s := &searcher{p: p, r: r}
	return s.find(min(max(start, 0), r.Len()))
}

// Match returns a match only if it spans the whole of r.
func (p *Pattern) Match(r Range) (*Match, error) {
	p.fullOnce.Do(p.compileAnchored)
	if p.fullErr != nil {
		return nil, p.fullErr
	}

	if p.fullCore != nil && !r.wide {
		idx := p.fullCore.FindStringSubmatchIndex(r.text)
		if idx == nil {
			return nil, nil
		}
		return newMatch(p, r, p.coreSpans(idx, 0)), nil
	}

	return p.runBacktrack(p.full, r, newSubject(r), 0)
}

// All iterates over the successive non-overlapping matches in r. After an
// empty match the scan moves on by one element, one character for narrow
// text. Iteration stops at the first error, which is yielded with a nil
// Match.
func (p *Pattern) All(r Range) iter.Seq2[*Match, error] {
	return func(yield func(*Match, error) bool) {
		s := &searcher{p: p, r: r}
		pos := 0
		for pos <= r.Len() {
			m, err := s.find(pos)
			if err != nil {
				yield(nil, err)
				return
			}
			if m == nil || !yield(m, nil) {
				return
			}

			pos = s.next(m.spans[0])
		}
	}
}

// searcher runs the searches of one operation over one Range. The decoded
// form of a narrow Range is built at most once.
type searcher struct {
	p    *Pattern
	r    Range
	subj *subject
}

func (s *searcher) find(start int) (*Match, error) {
	p := s.p
	if p.core != nil && !s.r.wide && (start == 0 || !p.tr.Contextual) {
		start = alignStart(s.r.text, start)
		idx := p.core.FindStringSubmatchIndex(s.r.text[start:])
		if idx == nil {
			return nil, nil
		}
		return newMatch(p, s.r, p.coreSpans(idx, start)), nil
	}

	if s.subj == nil {
		s.subj = newSubject(s.r)
	}

	return p.runBacktrack(p.back, s.r, s.subj, s.subj.toRune(start))
}

// next returns where to resume after a match covering span.
func (s *searcher) next(span Span) int {
	end := span.End()
	if span.Length > 0 {
		return end
	}
	if end >= s.r.Len() {
		return s.r.Len() + 1
	}
	if s.r.wide {
		return end + 1
	}

	_, size := utf8.DecodeRuneInString(s.r.text[end:])
	return end + size
}

func (p *Pattern) runBacktrack(re *regexp2.Regexp, r Range, subj *subject, start int) (m *Match, err error) {
	defer func() {
		if v := recover(); v != nil {
			m, err = nil, &Error{Kind: KindStack, Msg: fmt.Sprintf("engine failure: %v", v), Expr: p.source}
		}
	}()

	rm, err := re.FindRunesMatchStartingAt(subj.runes, start)
	if err != nil {
		return nil, &Error{Kind: KindComplexity, Msg: err.Error(), Expr: p.source, Err: err}
	}
	if rm == nil {
		return nil, nil
	}

	groups := rm.Groups()
	spans := make([]Span, p.tr.Groups+1)
	for i := range spans {
		if i >= len(groups) || len(groups[i].Captures) == 0 {
			spans[i] = unmatched
			continue
		}

		g := groups[i]
		begin := subj.toElem(g.Index)
		spans[i] = Span{Matched: true, Offset: begin, Length: subj.toElem(g.Index+g.Length) - begin}
	}

	return newMatch(p, r, spans), nil
}

func (p *Pattern) coreSpans(idx []int, shift int) []Span {
	spans := make([]Span, p.tr.Groups+1)
	for i := range spans {
		if 2*i+1 >= len(idx) || idx[2*i] < 0 {
			spans[i] = unmatched
			continue
		}
		spans[i] = Span{Matched: true, Offset: idx[2*i] + shift, Length: idx[2*i+1] - idx[2*i]}
	}

	return spans
}

// alignStart moves a byte offset inside an encoded character forward to the
// start of the next one, in step with how the text decodes from its start.
func alignStart(s string, start int) int {
	if start <= 0 || start >= len(s) || utf8.RuneStart(s[start]) {
		return start
	}

	i := start
	for i > 0 && start-i < utf8.UTFMax && !utf8.RuneStart(s[i]) {
		i--
	}
	for i < start {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}

	return i
}
