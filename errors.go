package regcompat

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind classifies a pattern compilation or matching failure independently of
// its numeric encoding.
type Kind int

const (
	KindCollate Kind = iota + 1
	KindCtype
	KindEscape
	KindBackref
	KindBrack
	KindParen
	KindBrace
	KindRange
	KindSpace
	KindBadRepeat
	KindBadBrace
	KindBadPattern
	KindComplexity
	KindStack

	// KindNotInitialized and KindDialect are raised by this package itself
	// and have no code in either numeric encoding.
	KindNotInitialized
	KindDialect
)

var kindNames = [...]string{
	KindCollate:        "collate",
	KindCtype:          "ctype",
	KindEscape:         "escape",
	KindBackref:        "backref",
	KindBrack:          "brack",
	KindParen:          "paren",
	KindBrace:          "brace",
	KindRange:          "range",
	KindSpace:          "space",
	KindBadRepeat:      "badrepeat",
	KindBadBrace:       "badbrace",
	KindBadPattern:     "badpattern",
	KindComplexity:     "complexity",
	KindStack:          "stack",
	KindNotInitialized: "notinitialized",
	KindDialect:        "dialect",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Encoding selects one of the two numeric error tables.
type Encoding int

const (
	// EncodingNative is the 1-based table of the native dialect. It has a
	// code for bad-pattern and none for brace.
	EncodingNative Encoding = iota
	// EncodingStandard is the 0-based table compatible with
	// std::regex_constants. It has a code for brace and none for bad-pattern.
	EncodingStandard
)

// nativeCodes and standardCodes are ordered by code value.
var (
	nativeCodes = []Kind{
		1:  KindCollate,
		2:  KindCtype,
		3:  KindEscape,
		4:  KindBackref,
		5:  KindBrack,
		6:  KindParen,
		7:  KindRange,
		8:  KindSpace,
		9:  KindBadRepeat,
		10: KindBadBrace,
		11: KindBadPattern,
		12: KindComplexity,
		13: KindStack,
	}

	standardCodes = []Kind{
		0:  KindCollate,
		1:  KindCtype,
		2:  KindEscape,
		3:  KindBackref,
		4:  KindBrack,
		5:  KindParen,
		6:  KindBrace,
		7:  KindBadBrace,
		8:  KindRange,
		9:  KindSpace,
		10: KindBadRepeat,
		11: KindComplexity,
		12: KindStack,
	}
)

func codeTable(enc Encoding) []Kind {
	if enc == EncodingStandard {
		return standardCodes
	}

	return nativeCodes
}

// Code returns the numeric code of k in the given encoding. The boolean is
// false when the encoding has no code for k.
func (k Kind) Code(enc Encoding) (int, bool) {
	for code, kind := range codeTable(enc) {
		if kind != 0 && kind == k {
			return code, true
		}
	}

	return -1, false
}

// KindFromCode is the inverse of [Kind.Code].
func KindFromCode(enc Encoding, code int) (Kind, bool) {
	table := codeTable(enc)
	if code < 0 || code >= len(table) || table[code] == 0 {
		return 0, false
	}

	return table[code], true
}

// NativeCodes returns the native table ordered by ascending code. Index i
// holds the kind whose code is i; slot 0 is unused.
func NativeCodes() []Kind {
	return slices.Clone(nativeCodes)
}

// StandardCodes returns the standard table ordered by ascending code, index i
// holding the kind whose code is i.
func StandardCodes() []Kind {
	return slices.Clone(standardCodes)
}

// ErrNotInitialized indicates that no library context is held while an
// operation needs one, or that Release was called without a matching Acquire.
var ErrNotInitialized = errors.New("regcompat: library context is not initialized")

// ErrAmbiguousDialect indicates that both dialect flags were set.
var ErrAmbiguousDialect = errors.New("regcompat: both ECMAScript and Native dialect flags set")

// ErrDuplicateGroupName indicates a group name declared twice in a dialect
// that does not allow it.
var ErrDuplicateGroupName = errors.New("regcompat: duplicate group name")

// ErrTemplate is wrapped by every [*TemplateError].
var ErrTemplate = errors.New("regcompat: invalid replacement template")

// Error is the structured failure returned by compilation and, for the
// complexity and stack kinds, by matching.
type Error struct {
	Kind Kind
	Msg  string
	// RawCode is the failing engine's own error code, if it reported one.
	RawCode string
	// Expr is the pattern text as given to Compile.
	Expr string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("regcompat: ")
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Expr != "" {
		b.WriteString(" in `")
		b.WriteString(e.Expr)
		b.WriteByte('`')
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the error's numeric code in enc.
func (e *Error) Code(enc Encoding) (int, bool) {
	return e.Kind.Code(enc)
}

// IsKind reports whether err wraps an [*Error] of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// TemplateError reports a malformed replacement template. It is never an
// [*Error].
type TemplateError struct {
	Template string
	// Pos is the byte offset in Template where the bad token starts.
	Pos int
	Msg string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("regcompat: template: %s at offset %d in %q", e.Msg, e.Pos, e.Template)
}

func (e *TemplateError) Unwrap() error {
	return ErrTemplate
}

func newError(kind Kind, expr, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Expr: expr}
}
