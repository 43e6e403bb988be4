package regcompat

import (
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// appendLiteral appends r to an expression so that it matches itself in
// both engines.
func appendLiteral(dst []byte, r rune) []byte {
	switch r {
	case '\\', '.', '^', '$', '|', '?', '*', '+', '(', ')', '[', ']', '{', '}':
		return append(dst, '\\', byte(r))
	}

	return appendRaw(dst, r)
}

// appendClassRune is appendLiteral for the inside of a bracket expression.
func appendClassRune(dst []byte, r rune) []byte {
	switch r {
	case '\\', ']', '[', '^', '-':
		return append(dst, '\\', byte(r))
	}

	return appendRaw(dst, r)
}

func appendRaw(dst []byte, r rune) []byte {
	if r < 0x20 || r == 0x7f {
		dst = append(dst, '\\', 'x')
		if r < 0x10 {
			dst = append(dst, '0')
		}
		return strconv.AppendInt(dst, int64(r), 16)
	}

	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}

	return utf8.AppendRune(dst, r)
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}

	return -1
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || r == '_'
}

// subject is an input decoded once for the backtracking engine, which works
// on runes. offs maps rune indexes to element offsets of the original range
// and has one extra entry for the end.
type subject struct {
	runes []rune
	offs  []int
}

func newSubject(r Range) *subject {
	if r.wide {
		return &subject{runes: r.runes}
	}

	s := r.text
	runes := make([]rune, 0, len(s))
	offs := make([]int, 0, len(s)+1)
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		runes = append(runes, c)
		offs = append(offs, i)
		i += size
	}
	offs = append(offs, len(s))

	return &subject{runes: runes, offs: offs}
}

// toRune converts an element offset to a rune index, rounding up when off
// falls inside an encoded rune.
func (s *subject) toRune(off int) int {
	if s.offs == nil {
		return off
	}

	return sort.SearchInts(s.offs, off)
}

// toElem converts a rune index to an element offset.
func (s *subject) toElem(idx int) int {
	if s.offs == nil {
		return idx
	}

	return s.offs[idx]
}
