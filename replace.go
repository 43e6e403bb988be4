package regcompat

import "strings"

// Mode selects how many matches Replace rewrites.
type Mode uint8

const (
	// ReplaceFirst rewrites only the leftmost match.
	ReplaceFirst Mode = iota
	// ReplaceAll rewrites every non-overlapping match.
	ReplaceAll
)

// Replace returns r with matches replaced by the expansion of template; see
// the package documentation for the template syntax. Text between matches is
// copied unchanged. If nothing matches, the result equals r.
func (p *Pattern) Replace(r Range, template string, mode Mode) (string, error) {
	out, _, err := p.ReplaceCount(r, template, mode)
	return out, err
}

// ReplaceCount is Replace that also reports how many matches were rewritten.
// The template is validated even when nothing matches.
func (p *Pattern) ReplaceCount(r Range, template string, mode Mode) (string, int, error) {
	tmpl, err := p.parseTemplate(template)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	last := 0
	n := 0
	for m, err := range p.All(r) {
		if err != nil {
			return "", 0, err
		}

		span := m.Span()
		if n == 0 {
			b.Grow(r.Len())
		}
		b.WriteString(r.slice(last, span.Offset))
		tmpl.expand(&b, m)
		last = span.End()
		n++

		if mode == ReplaceFirst {
			break
		}
	}

	if n == 0 {
		return r.String(), 0, nil
	}

	b.WriteString(r.slice(last, r.Len()))
	return b.String(), n, nil
}

// ReplaceRunes is Replace over wide text.
func (p *Pattern) ReplaceRunes(src []rune, template string, mode Mode) ([]rune, error) {
	out, err := p.Replace(Runes(src), template, mode)
	if err != nil {
		return nil, err
	}

	return []rune(out), nil
}

// Expand appends the expansion of template for m to dst.
func (p *Pattern) Expand(dst []byte, template string, m *Match) ([]byte, error) {
	tmpl, err := p.parseTemplate(template)
	if err != nil {
		return dst, err
	}

	var b strings.Builder
	tmpl.expand(&b, m)
	return append(dst, b.String()...), nil
}
