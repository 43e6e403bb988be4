package regcompat

import "unsafe"

// Range is a borrowed view of the text to search. Narrow ranges hold UTF-8
// and are addressed in bytes; wide ranges hold runes and are addressed in
// runes. A Range never copies its input, so the underlying text must not
// change while a Range or a Match built from it is in use.
type Range struct {
	text  string
	runes []rune
	wide  bool
}

// Text returns a narrow range over s.
func Text(s string) Range {
	return Range{text: s}
}

// Bytes returns a narrow range over b without copying it.
func Bytes(b []byte) Range {
	if len(b) == 0 {
		return Range{}
	}

	return Range{text: unsafe.String(unsafe.SliceData(b), len(b))}
}

// Runes returns a wide range over r.
func Runes(r []rune) Range {
	return Range{runes: r, wide: true}
}

// Len returns the length of the range in elements.
func (r Range) Len() int {
	if r.wide {
		return len(r.runes)
	}

	return len(r.text)
}

// Wide reports whether the range is addressed in runes.
func (r Range) Wide() bool {
	return r.wide
}

// Sub returns the range [begin, end) of r. Bounds are clamped to r.
func (r Range) Sub(begin, end int) Range {
	begin, end = clampSpan(begin, end, r.Len())
	if r.wide {
		return Range{runes: r.runes[begin:end], wide: true}
	}

	return Range{text: r.text[begin:end]}
}

// String returns the range as a string. For a narrow range this is the
// original text, not a copy.
func (r Range) String() string {
	if r.wide {
		return string(r.runes)
	}

	return r.text
}

func (r Range) slice(begin, end int) string {
	if r.wide {
		return string(r.runes[begin:end])
	}

	return r.text[begin:end]
}

func clampSpan(begin, end, n int) (int, int) {
	begin = min(max(begin, 0), n)
	end = min(max(end, begin), n)
	return begin, end
}
