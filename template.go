package regcompat

import (
	"strconv"
	"strings"
)

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segGroup
	segNamed
	segPrefix
	segSuffix
)

type segment struct {
	kind  segmentKind
	lit   string
	group int
	name  string
}

type expansion struct {
	segs []segment
}

func (p *Pattern) parseTemplate(src string) (*expansion, error) {
	t := &expansion{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segs = append(t.segs, segment{kind: segLiteral, lit: lit.String()})
			lit.Reset()
		}
	}
	add := func(s segment) {
		flush()
		t.segs = append(t.segs, s)
	}
	fail := func(pos int, msg string) error {
		return &TemplateError{Template: src, Pos: pos, Msg: msg}
	}

	for i := 0; i < len(src); {
		c := src[i]
		if c != '$' || i+1 >= len(src) {
			lit.WriteByte(c)
			i++
			continue
		}

		switch n := src[i+1]; {
		case n == '$':
			lit.WriteByte('$')
			i += 2
		case n == '&':
			add(segment{kind: segGroup, group: 0})
			i += 2
		case n == '`':
			add(segment{kind: segPrefix})
			i += 2
		case n == '\'':
			add(segment{kind: segSuffix})
			i += 2
		case isDigit(n):
			group, used := p.templateGroup(src[i+1:])
			if used == 0 {
				return nil, fail(i, "reference to undefined group $"+string(n))
			}
			add(segment{kind: segGroup, group: group})
			i += 1 + used
		case n == '{' || n == '<':
			closer := byte('}')
			if n == '<' {
				closer = '>'
			}
			end := strings.IndexByte(src[i+2:], closer)
			if end < 0 {
				return nil, fail(i, "unclosed $"+string(n))
			}
			ref := src[i+2 : i+2+end]
			if ref == "" {
				return nil, fail(i, "empty $"+string(n)+string(closer))
			}
			s, err := p.templateRef(ref, n == '{')
			if err != "" {
				return nil, fail(i, err)
			}
			add(s)
			i += 3 + end
		default:
			lit.WriteByte('$')
			i++
		}
	}

	flush()
	return t, nil
}

// templateGroup reads the group number at the start of s. It returns the
// number of digits consumed, 0 if no group fits.
func (p *Pattern) templateGroup(s string) (group, used int) {
	if len(s) >= 2 && isDigit(s[1]) {
		if v := int(s[0]-'0')*10 + int(s[1]-'0'); v >= 1 && v <= p.tr.Groups {
			return v, 2
		}
	}

	if v := int(s[0] - '0'); v <= p.tr.Groups {
		return v, 1
	}

	return 0, 0
}

func (p *Pattern) templateRef(ref string, numeric bool) (segment, string) {
	if numeric && isDigits(ref) {
		v, err := strconv.Atoi(ref)
		if err != nil || v > p.tr.Groups {
			return segment{}, "reference to undefined group ${" + ref + "}"
		}
		return segment{kind: segGroup, group: v}, ""
	}

	if len(p.groupsNamed(ref)) == 0 {
		return segment{}, "reference to undefined group name " + strconv.Quote(ref)
	}

	return segment{kind: segNamed, name: ref}, ""
}

func (t *expansion) expand(dst *strings.Builder, m *Match) {
	for _, s := range t.segs {
		switch s.kind {
		case segLiteral:
			dst.WriteString(s.lit)
		case segGroup:
			dst.WriteString(m.Text(s.group))
		case segNamed:
			dst.WriteString(m.NamedText(s.name))
		case segPrefix:
			dst.WriteString(m.Prefix().String())
		case segSuffix:
			dst.WriteString(m.Suffix().String())
		}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}

	return s != ""
}
