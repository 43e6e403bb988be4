package regcompat

import (
	"strings"
	"testing"
)

func TestMatchGroups(t *testing.T) {
	p := MustCompile(`(a)|(b)`, 0)
	m, err := p.Search(Text("xb"), 0)
	if err != nil || m == nil {
		t.Fatalf("Search: %v %v", m, err)
	}

	if m.Len() != 3 {
		t.Fatalf("Len: got %d want 3", m.Len())
	}
	if g := m.Group(1); g.Matched || g.Offset != -1 || g.Length != 0 || g.End() != -1 {
		t.Fatalf("unmatched group: got %+v", g)
	}
	if g := m.Group(2); !g.Matched || g.Offset != 1 || g.Length != 1 || g.End() != 2 {
		t.Fatalf("matched group: got %+v", g)
	}
	if g := m.Group(7); g.Matched {
		t.Fatalf("out-of-range group must be unmatched, got %+v", g)
	}
	if m.Text(1) != "" || m.Runes(1) != nil {
		t.Fatalf("unmatched text: got %q", m.Text(1))
	}

	idx := m.Index()
	want := []int{1, 2, -1, -1, 1, 2}
	for i := range want {
		if idx[i] != want[i] {
			t.Fatalf("Index: got %v want %v", idx, want)
		}
	}
}

func TestMatchNamed(t *testing.T) {
	p := MustCompile(`(?<key>\w+)=(?<value>\w*)`, 0)
	m, err := p.Search(Text("a=1"), 0)
	if err != nil || m == nil {
		t.Fatalf("Search: %v %v", m, err)
	}

	if s, ok := m.Named("key"); !ok || s.Offset != 0 || s.Length != 1 {
		t.Fatalf("key: got %+v %v", s, ok)
	}
	if m.NamedText("value") != "1" {
		t.Fatalf("value: got %q", m.NamedText("value"))
	}
	if _, ok := m.Named("missing"); ok {
		t.Fatalf("missing name must report false")
	}
	if _, ok := m.Named(""); ok {
		t.Fatalf("empty name must report false")
	}

	if p.SubexpIndex("value") != 2 || p.SubexpIndex("nope") != -1 {
		t.Fatalf("SubexpIndex: got %d %d", p.SubexpIndex("value"), p.SubexpIndex("nope"))
	}
	if strings.Join(p.SubexpNames(), ",") != ",key,value" {
		t.Fatalf("SubexpNames: got %q", p.SubexpNames())
	}
	if p.NumSubexp() != 2 {
		t.Fatalf("NumSubexp: got %d", p.NumSubexp())
	}
}

func TestMatchDuplicateNames(t *testing.T) {
	withLibrary(t)

	p := MustCompile(`(?<x>a)|(?<x>b)`, Native)

	m, err := p.Search(Text("b"), 0)
	if err != nil || m == nil {
		t.Fatalf("Search: %v %v", m, err)
	}
	if s, ok := m.Named("x"); !ok || !s.Matched || s.Offset != 0 || m.NamedText("x") != "b" {
		t.Fatalf("second alternative: got %+v %v", s, ok)
	}

	m, err = p.Search(Text("a"), 0)
	if err != nil || m == nil || m.NamedText("x") != "a" {
		t.Fatalf("first alternative: got %v %v", m, err)
	}

	if p.SubexpIndex("x") != 2 {
		t.Fatalf("SubexpIndex must name the last group, got %d", p.SubexpIndex("x"))
	}
}

func TestMatchPrefixSuffix(t *testing.T) {
	m, err := MustCompile(`b+`, 0).Search(Text("abbc"), 0)
	if err != nil || m == nil {
		t.Fatalf("Search: %v %v", m, err)
	}

	if m.Prefix().String() != "a" || m.Suffix().String() != "c" {
		t.Fatalf("got prefix %q suffix %q", m.Prefix().String(), m.Suffix().String())
	}
	if m.Range().String() != "abbc" || m.Pattern().String() != `b+` {
		t.Fatalf("Range/Pattern accessors")
	}

	w, err := MustCompile(`ö`, 0).Search(Runes([]rune("aöc")), 0)
	if err != nil || w == nil {
		t.Fatalf("wide Search: %v %v", w, err)
	}
	if !w.Prefix().Wide() || w.Prefix().String() != "a" || w.Suffix().String() != "c" {
		t.Fatalf("wide prefix/suffix")
	}
}

func TestRangeSub(t *testing.T) {
	r := Text("hello")
	if got := r.Sub(1, 3).String(); got != "el" {
		t.Fatalf("Sub: got %q", got)
	}
	if got := r.Sub(-4, 99).String(); got != "hello" {
		t.Fatalf("clamped Sub: got %q", got)
	}
	if got := r.Sub(4, 2).Len(); got != 0 {
		t.Fatalf("inverted Sub: got length %d", got)
	}
	if Bytes(nil).Len() != 0 {
		t.Fatalf("empty Bytes")
	}

	// A sub-range hides the text around it.
	m, err := MustCompile(`^l`, 0).Search(r.Sub(2, 5), 0)
	if err != nil || m == nil || m.Span().Offset != 0 {
		t.Fatalf("search in sub-range: got %v %v", m, err)
	}
}
