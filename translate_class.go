package regcompat

import "unicode/utf8"

// ecmaSpace is the body of the ECMAScript \s class in a form both engines
// read the same way.
const ecmaSpace = "\\t\\n\\x0B\\f\\r \u00a0\u1680\u2000-\u200a\u2028\u2029\u202f\u205f\u3000\ufeff"

// posixClasses maps bracket expression class names to ASCII class bodies.
var posixClasses = map[string]string{
	"alnum":  "0-9A-Za-z",
	"alpha":  "A-Za-z",
	"ascii":  "\\x00-\\x7F",
	"blank":  "\\x09 ",
	"cntrl":  "\\x00-\\x1F\\x7F",
	"digit":  "0-9",
	"graph":  "!-~",
	"lower":  "a-z",
	"print":  " -~",
	"punct":  "!-/:-@\\[-`{-~",
	"space":  "\\x09-\\x0D ",
	"upper":  "A-Z",
	"word":   "0-9A-Za-z_",
	"xdigit": "0-9A-Fa-f",
}

// asciiClass reports whether a positive class body can only match ASCII
// characters, a single byte each in narrow text.
func asciiClass(body string) bool {
	for i := 0; i < len(body); i++ {
		if body[i] >= utf8.RuneSelf {
			return false
		}
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'D', 'W', 'S', 'p', 'P':
				return false
			}
		}
	}

	return true
}

// classItem is one element of a bracket expression: a single character that
// may start or end a range, or a prebuilt set body.
type classItem struct {
	r   rune
	set string
	// negated marks a [:^name:] set, valid only as the sole item.
	negated bool
}

func (it classItem) isChar() bool {
	return it.set == "" && !it.negated
}

// class translates a bracket expression starting at '['.
func (t *translator) class() error {
	body, negated, err := t.classBody()
	if err != nil {
		return err
	}

	t.beginAtom()
	if negated || !asciiClass(body) {
		t.simple = false
	}
	switch {
	case body == "" && negated:
		t.emit(`[\s\S]`)
	case body == "":
		t.simple = false
		t.emit("(?!)")
	case negated:
		t.emit("[^" + body + "]")
	default:
		t.emit("[" + body + "]")
	}

	return nil
}

// classBody reads from '[' to the matching ']' and returns the translated
// body. Native nested classes are flattened into the outer body.
func (t *translator) classBody() (string, bool, error) {
	start := t.pos
	t.pos++

	negated := false
	if t.peek(0) == '^' {
		negated = true
		t.pos++
	}

	var (
		out   []byte
		items int
		solo  *classItem
	)

	first := true
	for {
		if t.pos >= len(t.src) {
			return "", false, t.fail(KindBrack, "premature end of char-class at offset %d", start)
		}

		c := t.src[t.pos]
		if c == ']' && !(first && t.native()) {
			t.pos++
			break
		}
		first = false

		if t.native() && c == '&' && t.peek(1) == '&' {
			return "", false, t.fail(KindBadPattern, "char-class intersection is not supported")
		}

		item, err := t.classItem()
		if err != nil {
			return "", false, err
		}

		if item.isChar() && t.peek(0) == '-' && t.peek(1) != ']' && t.peek(1) != -1 {
			t.pos++
			hi, err := t.classItem()
			if err != nil {
				return "", false, err
			}
			if !hi.isChar() {
				return "", false, t.fail(KindRange, "char-class value at end of range")
			}
			if item.r > hi.r {
				return "", false, t.fail(KindRange, "empty range in char class")
			}
			out = appendClassRune(out, item.r)
			out = append(out, '-')
			out = appendClassRune(out, hi.r)
			items++
			continue
		}

		items++
		switch {
		case item.negated:
			it := item
			solo = &it
		case item.set != "":
			out = append(out, item.set...)
		default:
			out = appendClassRune(out, item.r)
		}
	}

	if solo != nil {
		if items != 1 || negated {
			return "", false, t.fail(KindBadPattern, "negated POSIX class must be the only item of a bracket expression")
		}
		return solo.set, true, nil
	}

	return string(out), negated, nil
}

func (t *translator) classItem() (classItem, error) {
	c := t.src[t.pos]

	switch {
	case c == '\\':
		return t.classEscape()
	case c == '[' && (t.peek(1) == ':' || t.peek(1) == '.' || t.peek(1) == '='):
		if item, ok, err := t.bracketName(); err != nil || ok {
			return item, err
		}
	case c == '[' && t.native():
		body, negated, err := t.classBody()
		if err != nil {
			return classItem{}, err
		}
		if negated {
			return classItem{}, t.fail(KindBadPattern, "negated nested char-class is not supported")
		}
		if body == "" {
			return classItem{}, t.fail(KindBrack, "empty nested char-class")
		}
		return classItem{set: body}, nil
	}

	t.pos++
	return classItem{r: c}, nil
}

// bracketName handles [:name:], [:^name:], [.x.] and [=x=]. ok is false when
// the text is not such a construct and '[' should be taken literally.
func (t *translator) bracketName() (classItem, bool, error) {
	kind := t.src[t.pos+1]

	end := -1
	for i := t.pos + 2; i+1 < len(t.src); i++ {
		if t.src[i] == kind && t.src[i+1] == ']' {
			end = i
			break
		}
		if t.src[i] == ']' && kind == ':' {
			break
		}
	}
	if end < 0 {
		if kind == ':' {
			return classItem{}, false, nil
		}
		return classItem{}, false, t.fail(KindBrack, "unterminated [%c in char-class", kind)
	}

	name := t.src[t.pos+2 : end]
	t.pos = end + 2

	if kind != ':' {
		if len(name) != 1 {
			return classItem{}, false, t.fail(KindCollate, "invalid collating element [%c%s%c]", kind, string(name), kind)
		}
		return classItem{r: name[0]}, true, nil
	}

	negated := len(name) > 0 && name[0] == '^'
	if negated {
		name = name[1:]
	}

	set, ok := posixClasses[string(name)]
	if !ok {
		return classItem{}, false, t.fail(KindCtype, "invalid POSIX bracket type [:%s:]", string(name))
	}

	return classItem{set: set, negated: negated}, true, nil
}

func (t *translator) classEscape() (classItem, error) {
	t.pos++
	if t.pos >= len(t.src) {
		return classItem{}, t.fail(KindEscape, "trailing backslash")
	}

	c := t.src[t.pos]
	t.pos++

	switch c {
	case 'd', 'D', 'w', 'W', 'S':
		if t.native() || c == 'S' {
			t.simple = false
		}
		return classItem{set: `\` + string(c)}, nil
	case 's':
		if t.native() {
			t.simple = false
			return classItem{set: `\s`}, nil
		}
		return classItem{set: ecmaSpace}, nil
	case 'b':
		return classItem{r: '\b'}, nil
	case '0':
		return classItem{r: t.octal(0, 2)}, nil
	}

	if r, ok, err := t.charEscape(c); err != nil {
		return classItem{}, err
	} else if ok {
		return classItem{r: r}, nil
	}

	if !t.native() {
		switch {
		case c >= '1' && c <= '9':
			return classItem{}, t.fail(KindEscape, `invalid escape \%c in char-class`, c)
		case c == 'h', c == 'H', c == 'R', c == 'e', c == 'a', c == 'p', c == 'P', c == 'o':
			return classItem{}, t.fail(KindBadPattern, `escape \%c is not supported in the ECMAScript dialect`, c)
		case isASCIILetter(c):
			return classItem{}, t.fail(KindEscape, `invalid escape \%c in char-class`, c)
		}
		return classItem{r: c}, nil
	}

	switch {
	case c >= '1' && c <= '7':
		return classItem{r: t.octal(c-'0', 2)}, nil
	case c == 'h':
		return classItem{set: "0-9a-fA-F"}, nil
	case c == 'H':
		return classItem{}, t.fail(KindBadPattern, `escape \H is not supported in a char-class`)
	case c == 'p' || c == 'P':
		prop, err := t.property(c)
		if err != nil {
			return classItem{}, err
		}
		t.simple = false
		return classItem{set: prop}, nil
	}

	return classItem{r: c}, nil
}
