package regcompat

import (
	"slices"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// translation is the dialect-independent result of translating a pattern.
// Its exported fields make it storable in the compile cache.
type translation struct {
	// Expr is the expression handed to the backtracking engine.
	Expr string
	// Groups is the number of capture groups.
	Groups int
	// Names maps group numbers to names; unnamed groups have "".
	Names []string
	// Simple reports that Expr has identical semantics under RE2 syntax, so
	// the automaton engine may run it.
	Simple bool
	// Contextual reports that Expr can look at text before the search
	// start, through anchors, word boundaries or look-behind.
	Contextual bool
}

type lastKind uint8

const (
	lastNone lastKind = iota
	lastAtom
	lastQuantified
	lastAnchor
)

type frameKind uint8

const (
	frameCapture frameKind = iota
	frameGroup
	frameLookbehind
	frameConditional
)

type frame struct {
	kind     frameKind
	start    int
	extended bool
}

// translator rewrites a pattern of either dialect into the backtracking
// engine's syntax. It runs twice over the source: a scan pass collects the
// group and name table so references can resolve forward, then an emit pass
// produces the expression.
type translator struct {
	src     []rune
	expr    string
	dialect Dialect
	flags   Flag
	scan    bool

	pos int
	out []byte

	// groups counts capture groups opened so far.
	groups int
	// total and names come from the scan pass.
	total int
	names []string

	frames   []frame
	extended bool

	last      lastKind
	atomStart int

	simple     bool
	contextual bool
}

func translate(src []rune, expr string, dialect Dialect, flags Flag) (translation, error) {
	pre := &translator{src: src, expr: expr, dialect: dialect, flags: flags, scan: true}
	if err := pre.run(); err != nil {
		return translation{}, err
	}

	t := &translator{
		src:     src,
		expr:    expr,
		dialect: dialect,
		flags:   flags,
		total:   pre.groups,
		names:   pre.names,
	}
	if err := t.run(); err != nil {
		return translation{}, err
	}

	names := t.names
	if names == nil {
		names = make([]string, t.groups+1)
	}

	return translation{
		Expr:       string(t.out),
		Groups:     t.groups,
		Names:      names,
		Simple:     t.simple,
		Contextual: t.contextual,
	}, nil
}

func (t *translator) run() error {
	t.simple = true
	if t.scan {
		t.names = []string{""}
	}

	for t.pos < len(t.src) {
		if err := t.step(); err != nil {
			return err
		}
	}

	if len(t.frames) > 0 {
		return t.fail(KindParen, "missing closing )")
	}

	return nil
}

func (t *translator) fail(kind Kind, format string, args ...any) error {
	return newError(kind, t.expr, format, args...)
}

func (t *translator) native() bool {
	return t.dialect == DialectNative
}

func (t *translator) peek(off int) rune {
	if t.pos+off < len(t.src) {
		return t.src[t.pos+off]
	}

	return -1
}

func (t *translator) emit(s string) {
	t.out = append(t.out, s...)
}

func (t *translator) beginAtom() {
	t.atomStart = len(t.out)
	t.last = lastAtom
}

func (t *translator) anchor(s string) {
	t.emit(s)
	t.last = lastAnchor
}

func (t *translator) step() error {
	c := t.src[t.pos]

	if t.extended {
		if unicode.IsSpace(c) {
			t.pos++
			return nil
		}
		if c == '#' {
			for t.pos < len(t.src) && t.src[t.pos] != '\n' {
				t.pos++
			}
			return nil
		}
	}

	switch c {
	case '\\':
		return t.escape()
	case '[':
		return t.class()
	case '(':
		return t.openGroup()
	case ')':
		return t.closeGroup()
	case '|':
		t.pos++
		t.simple = false
		t.emit("|")
		t.last = lastNone
	case '^':
		t.pos++
		t.contextual = true
		t.anchor("^")
	case '$':
		t.pos++
		if t.native() {
			t.anchor("$")
		} else {
			t.anchor(`\z`)
		}
	case '.':
		t.pos++
		t.beginAtom()
		t.simple = false
		if t.native() || t.flags&Multiline != 0 {
			t.emit(".")
		} else {
			t.emit("[^\\n\\r\u2028\u2029]")
		}
	case '*', '+', '?':
		return t.quantifier()
	case '{':
		return t.brace()
	default:
		t.pos++
		t.literal(c)
	}

	return nil
}

func (t *translator) literal(r rune) {
	t.beginAtom()
	if r >= utf8.RuneSelf && t.flags&ICase != 0 {
		t.simple = false
	}
	t.out = appendLiteral(t.out, r)
}

// quantifier handles '*', '+' and '?' together with their lazy and
// possessive suffixes.
func (t *translator) quantifier() error {
	q := t.src[t.pos]
	t.pos++

	if err := t.checkTarget(); err != nil {
		return err
	}

	t.out = append(t.out, byte(q))
	switch t.peek(0) {
	case '?':
		t.pos++
		t.emit("?")
	case '+':
		if !t.native() {
			return t.fail(KindBadPattern, "possessive quantifier is not supported in the ECMAScript dialect")
		}
		t.pos++
		t.possessive()
	}

	t.last = lastQuantified
	return nil
}

// checkTarget validates the operand of a quantifier about to be emitted. A
// quantified operand is wrapped in a non-capturing group in the native
// dialect, which repeats the whole repetition.
func (t *translator) checkTarget() error {
	switch t.last {
	case lastNone:
		return t.fail(KindBadRepeat, "target of repeat operator is not specified")
	case lastAnchor:
		return t.fail(KindBadRepeat, "target of repeat operator is invalid")
	case lastQuantified:
		if !t.native() {
			return t.fail(KindBadRepeat, "nothing to repeat")
		}
		t.out = slices.Insert(t.out, t.atomStart, []byte("(?:")...)
		t.emit(")")
	}

	return nil
}

func (t *translator) possessive() {
	t.out = slices.Insert(t.out, t.atomStart, []byte("(?>")...)
	t.emit(")")
	t.simple = false
}

// brace handles '{'. A well-formed interval is a quantifier. Otherwise the
// native dialect takes the brace literally while the ECMAScript dialect
// rejects it.
func (t *translator) brace() error {
	start := t.pos
	lo, hi, end, state := t.scanInterval()
	switch state {
	case intervalBad, intervalOpen:
		if t.native() {
			t.pos++
			t.literal('{')
			return nil
		}
		if state == intervalOpen {
			return t.fail(KindBrace, "unterminated interval at offset %d", start)
		}
		return t.fail(KindBadBrace, "invalid interval at offset %d", start)
	}

	if hi >= 0 && lo > hi {
		return t.fail(KindBadBrace, "interval {%d,%d} has min greater than max", lo, hi)
	}
	if lo == tooBig || hi == tooBig || (t.native() && (lo > maxRepeat || hi > maxRepeat)) {
		return t.fail(KindBadBrace, "too big number for repeat range")
	}

	t.pos = end
	if err := t.checkTarget(); err != nil {
		return err
	}

	t.emit("{")
	t.emit(strconv.Itoa(lo))
	switch {
	case hi == lo && state == intervalExact:
	case hi < 0:
		t.emit(",")
	default:
		t.emit(",")
		t.emit(strconv.Itoa(hi))
	}
	t.emit("}")

	if t.peek(0) == '?' {
		t.pos++
		t.emit("?")
	}

	t.last = lastQuantified
	return nil
}

type intervalState uint8

const (
	intervalBad intervalState = iota
	intervalOpen
	intervalExact
	intervalRange
)

// scanInterval parses {n}, {n,}, {n,m} and, in the native dialect, {,m}
// starting at t.pos without consuming. hi is -1 when unbounded. Counts too
// long to represent come back as tooBig.
func (t *translator) scanInterval() (lo, hi, end int, state intervalState) {
	i := t.pos + 1
	digits := func() (int, int) {
		begin := i
		for i < len(t.src) && t.src[i] >= '0' && t.src[i] <= '9' {
			i++
		}
		switch n := i - begin; {
		case n == 0:
			return 0, 0
		case n > 9:
			return tooBig, n
		default:
			v, _ := strconv.Atoi(string(t.src[begin:i]))
			return v, n
		}
	}

	lo, nlo := digits()
	hi, state = lo, intervalExact
	if i < len(t.src) && t.src[i] == ',' {
		i++
		state = intervalRange
		var nhi int
		hi, nhi = digits()
		if nhi == 0 {
			hi = -1
		}
		if nlo == 0 && (!t.native() || nhi == 0) {
			return 0, 0, 0, intervalBad
		}
	} else if nlo == 0 {
		return 0, 0, 0, intervalBad
	}

	if i >= len(t.src) {
		return 0, 0, 0, intervalOpen
	}
	if t.src[i] != '}' {
		return 0, 0, 0, intervalBad
	}

	return lo, hi, i + 1, state
}

const tooBig = 1<<31 - 1

func (t *translator) openGroup() error {
	if len(t.frames) >= maxDepth {
		return t.fail(KindStack, "group nesting exceeds %d", maxDepth)
	}

	if t.peek(1) != '?' {
		t.pos++
		return t.capture("")
	}

	start := t.pos
	t.pos += 2

	switch c := t.peek(0); {
	case c == ':':
		t.pos++
		t.push(frameGroup, "(?:")
	case c == '=' || c == '!':
		t.pos++
		t.simple = false
		t.push(frameGroup, "(?"+string(c))
	case c == '<' && (t.peek(1) == '=' || t.peek(1) == '!'):
		t.simple = false
		t.contextual = true
		t.push(frameLookbehind, "(?<"+string(t.peek(1)))
		t.pos += 2
	case c == '<' || (c == '\'' && t.native()):
		closer := '>'
		if c == '\'' {
			closer = '\''
		}
		t.pos++
		name, ok := t.until(closer)
		if !ok {
			return t.fail(KindParen, "unterminated group name at offset %d", start)
		}
		if !validGroupName(t.dialect, name) {
			return t.fail(KindBadPattern, "invalid group name <%s>", string(name))
		}
		return t.capture(string(name))
	case !t.native():
		return t.fail(KindBadPattern, "group construct (?%c is not supported in the ECMAScript dialect", c)
	case c == '>':
		t.pos++
		t.simple = false
		t.push(frameGroup, "(?>")
	case c == '#':
		if _, ok := t.until(')'); !ok {
			return t.fail(KindParen, "unterminated comment at offset %d", start)
		}
	case c == '(':
		return t.conditional(start)
	case c == '~', c == 'P':
		return t.fail(KindBadPattern, "group construct (?%c is not supported", c)
	default:
		return t.options(start)
	}

	return nil
}

func (t *translator) push(kind frameKind, open string) {
	t.frames = append(t.frames, frame{kind: kind, start: len(t.out), extended: t.extended})
	t.emit(open)
	t.last = lastNone
}

func (t *translator) capture(name string) error {
	t.groups++
	if t.groups > maxGroups {
		return t.fail(KindSpace, "too many capture groups")
	}

	if t.scan {
		if name != "" && !duplicateNamesAllowed(t.dialect) && slices.Contains(t.names, name) {
			return &Error{
				Kind: KindBadPattern,
				Msg:  "group name <" + name + "> is declared more than once",
				Expr: t.expr,
				Err:  ErrDuplicateGroupName,
			}
		}
		t.names = append(t.names, name)
	}

	t.push(frameCapture, "(")
	return nil
}

// until consumes runes up to and including closer and returns what lay
// between.
func (t *translator) until(closer rune) ([]rune, bool) {
	begin := t.pos
	for t.pos < len(t.src) {
		if t.src[t.pos] == closer {
			s := t.src[begin:t.pos]
			t.pos++
			return s, true
		}
		t.pos++
	}

	return nil, false
}

func (t *translator) closeGroup() error {
	if len(t.frames) == 0 {
		return t.fail(KindParen, "unmatched ) at offset %d", t.pos)
	}

	t.pos++
	f := t.frames[len(t.frames)-1]
	t.frames = t.frames[:len(t.frames)-1]

	t.emit(")")
	t.extended = f.extended
	t.atomStart = f.start
	t.last = lastAtom
	return nil
}

// options handles native inline option settings (?imx-imx) and
// (?imx-imx:...). Ruby's 'm' is dot-all.
func (t *translator) options(start int) error {
	var on, off []byte
	extended := t.extended
	negate := false

	for t.pos < len(t.src) {
		c := t.src[t.pos]
		t.pos++
		switch c {
		case 'i', 'm':
			flag := byte('i')
			if c == 'm' {
				flag = 's'
			}
			if negate {
				off = append(off, flag)
			} else {
				on = append(on, flag)
			}
		case 'x':
			extended = !negate
		case '-':
			if negate {
				return t.fail(KindBadPattern, "invalid option group at offset %d", start)
			}
			negate = true
		case ')', ':':
			spec := string(on)
			if len(off) > 0 {
				spec += "-" + string(off)
			}
			if c == ')' {
				if spec != "" {
					t.emit("(?" + spec + ")")
				}
				t.extended = extended
				t.last = lastNone
				return nil
			}
			t.push(frameGroup, "(?"+spec+":")
			t.extended = extended
			return nil
		default:
			return t.fail(KindBadPattern, "undefined group option %q", c)
		}
	}

	return t.fail(KindParen, "end pattern in group at offset %d", start)
}

// conditional handles native (?(cond)yes|no) where cond is a group number or
// name.
func (t *translator) conditional(start int) error {
	t.pos++
	cond, ok := t.until(')')
	if !ok || len(cond) == 0 {
		return t.fail(KindParen, "invalid conditional at offset %d", start)
	}

	var group int
	switch {
	case cond[0] == '<' && cond[len(cond)-1] == '>', cond[0] == '\'' && cond[len(cond)-1] == '\'':
		idx := t.namedGroups(string(cond[1 : len(cond)-1]))
		if len(idx) == 0 && !t.scan {
			return t.fail(KindBackref, "undefined name <%s> in conditional", string(cond[1:len(cond)-1]))
		}
		if len(idx) > 0 {
			group = idx[len(idx)-1]
		}
	default:
		n, err := strconv.Atoi(string(cond))
		if err != nil || n < 1 || (!t.scan && n > t.total) {
			return t.fail(KindBackref, "invalid backref number in conditional (%s)", string(cond))
		}
		group = n
	}

	t.simple = false
	t.frames = append(t.frames, frame{kind: frameConditional, start: len(t.out), extended: t.extended})
	t.emit("(?(" + strconv.Itoa(group) + ")")
	t.last = lastNone
	return nil
}

func (t *translator) namedGroups(name string) []int {
	var idx []int
	for i, n := range t.names {
		if i > 0 && n == name {
			idx = append(idx, i)
		}
	}

	return idx
}

func (t *translator) backref(groups ...int) {
	t.beginAtom()
	t.simple = false
	if t.scan {
		return
	}

	t.emit("(?:")
	for i := len(groups) - 1; i >= 0; i-- {
		t.emit(`\`)
		t.emit(strconv.Itoa(groups[i]))
		if i > 0 {
			t.emit("|")
		}
	}
	t.emit(")")
}

func (t *translator) escape() error {
	t.pos++
	if t.pos >= len(t.src) {
		return t.fail(KindEscape, "trailing backslash")
	}

	c := t.src[t.pos]
	t.pos++

	switch c {
	case 'd', 'D', 'w', 'W':
		t.beginAtom()
		t.emit(`\` + string(c))
		if t.native() || c == 'D' || c == 'W' {
			t.simple = false
		}
		return nil
	case 's':
		t.beginAtom()
		t.simple = false
		if t.native() {
			t.emit(`\s`)
		} else {
			t.emit("[" + ecmaSpace + "]")
		}
		return nil
	case 'S':
		t.beginAtom()
		t.simple = false
		if t.native() {
			t.emit(`\S`)
		} else {
			t.emit("[^" + ecmaSpace + "]")
		}
		return nil
	case 'b', 'B':
		t.contextual = true
		if t.native() {
			t.simple = false
		}
		t.anchor(`\` + string(c))
		return nil
	case 'k':
		return t.namedBackref()
	case '0':
		t.literal(t.octal(0, 2))
		return nil
	}

	if c >= '1' && c <= '9' {
		return t.numericBackref()
	}

	if r, ok, err := t.charEscape(c); err != nil {
		return err
	} else if ok {
		t.literal(r)
		return nil
	}

	if t.native() {
		return t.nativeEscape(c)
	}

	return t.ecmaEscape(c)
}

func (t *translator) nativeEscape(c rune) error {
	switch c {
	case 'A', 'G':
		t.contextual = true
		t.simple = t.simple && c == 'A'
		t.anchor(`\` + string(c))
	case 'z':
		t.anchor(`\z`)
	case 'Z':
		t.simple = false
		t.anchor(`\Z`)
	case 'h':
		t.beginAtom()
		t.emit("[0-9a-fA-F]")
	case 'H':
		t.beginAtom()
		t.simple = false
		t.emit("[^0-9a-fA-F]")
	case 'R':
		t.beginAtom()
		t.simple = false
		t.emit("(?>\\r\\n|[\\n\\x0B\\f\\r\u0085\u2028\u2029])")
	case 'p', 'P':
		prop, err := t.property(c)
		if err != nil {
			return err
		}
		t.beginAtom()
		t.simple = false
		t.emit(prop)
	case 'K', 'X', 'g', 'y', 'Y':
		return t.fail(KindBadPattern, `escape \%c is not supported`, c)
	default:
		t.literal(c)
	}

	return nil
}

func (t *translator) ecmaEscape(c rune) error {
	switch c {
	case 'A', 'z', 'Z', 'G', 'h', 'H', 'R', 'K', 'X', 'Q', 'E', 'e', 'a', 'o', 'g', 'p', 'P':
		return t.fail(KindBadPattern, `escape \%c is not supported in the ECMAScript dialect`, c)
	}

	if isASCIILetter(c) {
		return t.fail(KindEscape, `invalid escape \%c`, c)
	}

	t.literal(c)
	return nil
}

// charEscape decodes escapes that denote a single character in both
// dialects, plus the native-only \a, \e, \x{...}, \o{...} and \u{...}.
func (t *translator) charEscape(c rune) (rune, bool, error) {
	switch c {
	case 't':
		return '\t', true, nil
	case 'n':
		return '\n', true, nil
	case 'r':
		return '\r', true, nil
	case 'f':
		return '\f', true, nil
	case 'v':
		return '\v', true, nil
	case 'a', 'e':
		if !t.native() {
			return 0, false, nil
		}
		if c == 'a' {
			return '\a', true, nil
		}
		return 0x1b, true, nil
	case 'c':
		r := t.peek(0)
		if !isASCIILetter(r) {
			if t.native() {
				return 0, false, t.fail(KindEscape, `invalid control escape`)
			}
			t.pos--
			return '\\', true, nil
		}
		t.pos++
		return r % 32, true, nil
	case 'x':
		if t.peek(0) == '{' {
			if !t.native() {
				return 0, false, t.fail(KindBadPattern, `escape \x{...} is not supported in the ECMAScript dialect`)
			}
			r, err := t.bracedCode(16)
			return r, true, err
		}
		if t.native() {
			r, n := t.hexRun(2)
			if n == 0 {
				return 0, false, t.fail(KindEscape, `invalid hex escape`)
			}
			return r, true, nil
		}
		r, n := t.hexRun(2)
		if n != 2 {
			return 0, false, t.fail(KindEscape, `invalid hex escape`)
		}
		return r, true, nil
	case 'u':
		if t.peek(0) == '{' {
			if !t.native() {
				return 0, false, t.fail(KindBadPattern, `escape \u{...} is not supported in the ECMAScript dialect`)
			}
			r, err := t.bracedCode(16)
			return r, true, err
		}
		r, n := t.hexRun(4)
		if n != 4 {
			return 0, false, t.fail(KindEscape, `invalid unicode escape`)
		}
		return r, true, nil
	case 'o':
		if t.native() && t.peek(0) == '{' {
			r, err := t.bracedCode(8)
			return r, true, err
		}
	}

	return 0, false, nil
}

func (t *translator) hexRun(max int) (rune, int) {
	var r rune
	n := 0
	for n < max {
		d := hexValue(t.peek(0))
		if d < 0 {
			break
		}
		r = r<<4 | rune(d)
		t.pos++
		n++
	}

	return r, n
}

func (t *translator) octal(r rune, max int) rune {
	for i := 0; i < max; i++ {
		c := t.peek(0)
		if c < '0' || c > '7' {
			break
		}
		r = r<<3 | (c - '0')
		t.pos++
	}

	return r
}

func (t *translator) bracedCode(base int) (rune, error) {
	t.pos++
	body, ok := t.until('}')
	if !ok {
		return 0, t.fail(KindEscape, "unterminated code point escape")
	}

	v, err := strconv.ParseUint(string(body), base, 32)
	if err != nil || v > unicode.MaxRune || !utf8.ValidRune(rune(v)) {
		return 0, t.fail(KindEscape, "invalid code point value {%s}", string(body))
	}

	return rune(v), nil
}

// property rewrites \p{Name}, \p{^Name} and \P{Name}.
func (t *translator) property(c rune) (string, error) {
	if t.peek(0) != '{' {
		return "", t.fail(KindCtype, `invalid character property name`)
	}
	t.pos++

	body, ok := t.until('}')
	if !ok || len(body) == 0 {
		return "", t.fail(KindCtype, `invalid character property name`)
	}
	if body[0] == '^' {
		body = body[1:]
		if c == 'p' {
			c = 'P'
		} else {
			c = 'p'
		}
	}

	return `\` + string(c) + "{" + string(body) + "}", nil
}

func (t *translator) numericBackref() error {
	begin := t.pos - 1
	end := begin
	for end < len(t.src) && t.src[end] >= '0' && t.src[end] <= '9' {
		end++
	}

	bound := t.groups
	if !t.native() {
		bound = t.total
	}

	if t.scan {
		// Forward references cannot be checked until every group is known.
		t.pos = end
		t.backref()
		return nil
	}

	group, used, ok := resolveBackref(t.src[begin:end], bound)
	if !ok {
		return t.fail(KindBackref, `invalid backref number \%s`, string(t.src[begin:end]))
	}

	t.pos = begin + used
	t.backref(group)
	return nil
}

func (t *translator) namedBackref() error {
	open := t.peek(0)
	closer := '>'
	switch {
	case open == '<':
	case open == '\'' && t.native():
		closer = '\''
	default:
		return t.fail(KindBackref, `invalid backref name reference`)
	}
	t.pos++

	ref, ok := t.until(closer)
	if !ok || len(ref) == 0 {
		return t.fail(KindBackref, `invalid backref name reference`)
	}

	if t.native() {
		if n, err := strconv.Atoi(string(ref)); err == nil {
			group := n
			if n < 0 {
				group = t.groups + n + 1
			}
			if n == 0 || group < 1 || (!t.scan && group > t.total) {
				return t.fail(KindBackref, `invalid backref number \k<%s>`, string(ref))
			}
			t.backref(group)
			return nil
		}
		if i := slices.IndexFunc(ref, func(r rune) bool { return r == '+' || r == '-' }); i > 0 {
			return t.fail(KindBadPattern, `backref with nest level is not supported`)
		}
	}

	if t.scan {
		t.backref()
		return nil
	}

	groups := t.namedGroups(string(ref))
	if len(groups) == 0 {
		return t.fail(KindBackref, "undefined name <%s> reference", string(ref))
	}

	t.backref(groups...)
	return nil
}
