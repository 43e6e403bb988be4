package regcompat

import (
	"testing"
)

func TestCoreMatchAndFind(t *testing.T) {
	re := MustCompile("a+", 0)

	if !re.MatchString("caaab") {
		t.Fatalf("MatchString core: expected true")
	}

	if got := re.FindString("caaab"); got != "aaa" {
		t.Fatalf("FindString core: got %q", got)
	}

	if idx := re.FindStringIndex("caaab"); idx[0] != 1 || idx[1] != 4 {
		t.Fatalf("FindStringIndex core: got %v", idx)
	}

	reAlt := MustCompile("(a|ab)", 0)
	if got := reAlt.FindString("ab"); got != "a" {
		t.Fatalf("FindString core alt (leftmost-first): got %q", got)
	}

	if got := re.FindString("bbb"); got != "" {
		t.Fatalf("FindString no match: got %q", got)
	}
	if re.FindStringIndex("bbb") != nil || re.FindStringSubmatch("bbb") != nil {
		t.Fatalf("no match must yield nil")
	}
}

func TestBacktrackBackreference(t *testing.T) {
	re := MustCompile(`(\w+)\s+\1`, 0)

	if re.core != nil {
		t.Fatalf("expected the backtracking engine for a backreference pattern")
	}

	if !re.MatchString("go go") {
		t.Fatalf("MatchString backref: expected true")
	}

	if idx := re.FindStringIndex("go go"); idx[0] != 0 || idx[1] != 5 {
		t.Fatalf("FindStringIndex backref: got %v", idx)
	}

	sm := re.FindStringSubmatch("go go")
	if len(sm) != 2 || sm[0] != "go go" || sm[1] != "go" {
		t.Fatalf("FindStringSubmatch backref: got %v", sm)
	}

	idxs := re.FindStringSubmatchIndex("go go")
	expect := []int{0, 5, 0, 2}
	for i, v := range expect {
		if idxs[i] != v {
			t.Fatalf("FindStringSubmatchIndex backref: got %v want %v", idxs, expect)
		}
	}
}

func TestBacktrackLookbehindOffsets(t *testing.T) {
	// Emoji is 4 bytes; ensures rune-to-byte conversion is correct.
	re := MustCompile("(?<=🙂)a", 0)

	input := "🙂a🙂a"
	idxs := re.FindStringIndex(input)
	if len(idxs) != 2 || idxs[0] != 4 || idxs[1] != 5 {
		t.Fatalf("FindStringIndex lookbehind first: got %v", idxs)
	}

	all := re.FindAllStringIndex(input, -1)
	expect := [][]int{{4, 5}, {9, 10}}
	if len(all) != len(expect) {
		t.Fatalf("FindAllStringIndex lookbehind len: got %v want %v", all, expect)
	}
	for i := range expect {
		if all[i][0] != expect[i][0] || all[i][1] != expect[i][1] {
			t.Fatalf("FindAllStringIndex lookbehind[%d]: got %v want %v", i, all[i], expect[i])
		}
	}

	if got := re.FindAllString(input, 1); len(got) != 1 || got[0] != "a" {
		t.Fatalf("FindAllString limit: got %q", got)
	}
}

func TestBacktrackReplaceAndSplit(t *testing.T) {
	re := MustCompile("(?<=a)b", 0)

	if out := re.ReplaceAllString("ab ab", "X"); out != "aX aX" {
		t.Fatalf("ReplaceAllString backtracking: got %q", out)
	}

	tests := []struct {
		src   string
		input string
		n     int
		want  []string
	}{
		{",", "a,b,c", -1, []string{"a", "b", "c"}},
		{",", "a,b,c", 2, []string{"a", "b,c"}},
		{",", "a,b,c", 0, nil},
		{"x*", "abc", -1, []string{"a", "b", "c"}},
		{",", "", -1, nil},
	}

	for _, tt := range tests {
		parts := MustCompile(tt.src, 0).Split(tt.input, tt.n)
		if len(parts) != len(tt.want) {
			t.Fatalf("Split(%q, %q, %d): got %q want %q", tt.src, tt.input, tt.n, parts, tt.want)
		}
		for i := range tt.want {
			if parts[i] != tt.want[i] {
				t.Fatalf("Split(%q, %q, %d)[%d]: got %q want %q", tt.src, tt.input, tt.n, i, parts[i], tt.want[i])
			}
		}
	}
}

func TestPatternAccessors(t *testing.T) {
	p := MustCompile(`a.b`, ICase|Multiline)

	if p.String() != `a.b` || p.Flags() != ICase|Multiline || p.Dialect() != DialectECMAScript {
		t.Fatalf("accessors: %q %s %s", p.String(), p.Flags(), p.Dialect())
	}
	if p.Expr() != `a.b` {
		t.Fatalf("Expr: got %q", p.Expr())
	}
	if got := p.Flags().String(); got != "ICase|Multiline" {
		t.Fatalf("Flag.String: got %q", got)
	}
}

func TestPackageMatchString(t *testing.T) {
	ok, err := MatchString(`^\d+$`, 0, "12345")
	if err != nil || !ok {
		t.Fatalf("MatchString: got %v %v", ok, err)
	}

	if _, err := MatchString(`(`, 0, "x"); !IsKind(err, KindParen) {
		t.Fatalf("MatchString bad pattern: got %v", err)
	}

	quoted := QuoteMeta("a.b*c")
	if !MustCompile(quoted, 0).MatchString("a.b*c") || MustCompile(quoted, 0).MatchString("aXbbc") {
		t.Fatalf("QuoteMeta: %q does not match literally", quoted)
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("MustCompile: expected panic")
		}
	}()

	MustCompile(`(`, 0)
}
