package regcompat

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/coregx/coregex"
	"github.com/dlclark/regexp2"
	"github.com/dlclark/regexp2/syntax"
)

// Compile translates source from the dialect selected by flags and compiles
// it. Setting both dialect flags is an error of kind [KindDialect]; the
// native dialect needs a library context held via [Acquire] or [Init].
//
// Every pattern runs on a backtracking engine (regexp2). When the translated
// expression means the same thing in RE2 syntax, the pattern is also compiled
// with coregex, which then serves searches that cannot observe the
// difference.
func Compile(source string, flags Flag) (*Pattern, error) {
	return compile([]rune(source), source, flags)
}

// CompileRunes is like Compile for a pattern held as runes.
func CompileRunes(source []rune, flags Flag) (*Pattern, error) {
	return compile(source, string(source), flags)
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(source string, flags Flag) *Pattern {
	p, err := Compile(source, flags)
	if err != nil {
		panic(err)
	}
	return p
}

func compile(src []rune, source string, flags Flag) (*Pattern, error) {
	dialect, err := flags.dialect()
	if err != nil {
		return nil, &Error{Kind: KindDialect, Msg: "dialect flags are mutually exclusive", Expr: source, Err: err}
	}

	state := currentState()
	if dialect == DialectNative && state == nil {
		return nil, &Error{
			Kind: KindNotInitialized,
			Msg:  "the native dialect needs an initialized library context",
			Expr: source,
			Err:  ErrNotInitialized,
		}
	}

	tr, err := cachedTranslate(state, src, source, dialect, flags)
	if err != nil {
		return nil, err
	}

	back, err := compileBacktrack(tr.Expr, dialect, flags)
	if err != nil {
		return nil, engineError(err, source, dialect)
	}

	back.MatchTimeout = regexp2.DefaultMatchTimeout
	if state != nil {
		back.MatchTimeout = state.timeout
	}

	p := &Pattern{
		source:  source,
		flags:   flags,
		dialect: dialect,
		tr:      tr,
		back:    back,
	}

	if tr.Simple {
		// A pattern RE2 rejects, e.g. for repeat counts over its limit,
		// simply stays on the backtracking engine.
		if core, err := coregex.Compile(corePrefix(dialect, flags) + tr.Expr); err == nil {
			p.core = core
		}
	}

	return p, nil
}

func cachedTranslate(state *libState, src []rune, source string, dialect Dialect, flags Flag) (translation, error) {
	if state == nil || state.cache == nil {
		return translate(src, source, dialect, flags)
	}

	key := cacheKey(flags, source)
	if tr, found := state.cache.Get(key); found {
		return tr, nil
	}

	tr, err := translate(src, source, dialect, flags)
	if err != nil {
		return translation{}, err
	}

	state.cache.Set(key, tr)
	return tr, nil
}

func cacheKey(flags Flag, source string) string {
	return "v1|" + strconv.Itoa(int(flags)) + "|" + source
}

func backtrackOptions(dialect Dialect, flags Flag) regexp2.RegexOptions {
	opts := regexp2.None
	if dialect == DialectECMAScript {
		opts |= regexp2.ECMAScript
	} else {
		// Ruby's ^ and $ always match at line boundaries.
		opts |= regexp2.Multiline
	}
	if flags&ICase != 0 {
		opts |= regexp2.IgnoreCase
	}
	if flags&Multiline != 0 {
		opts |= regexp2.Singleline
	}

	return opts
}

func compileBacktrack(expr string, dialect Dialect, flags Flag) (re *regexp2.Regexp, err error) {
	defer func() {
		if r := recover(); r != nil {
			re, err = nil, &Error{Kind: KindStack, Msg: fmt.Sprintf("engine failure: %v", r)}
		}
	}()

	return regexp2.Compile(expr, backtrackOptions(dialect, flags))
}

func corePrefix(dialect Dialect, flags Flag) string {
	var b []byte
	if flags&ICase != 0 {
		b = append(b, 'i')
	}
	if flags&Multiline != 0 {
		b = append(b, 's')
	}
	if dialect == DialectNative {
		b = append(b, 'm')
	}
	if len(b) == 0 {
		return ""
	}

	return "(?" + string(b) + ")"
}

// engineError maps a backtracking engine failure onto the taxonomy.
func engineError(err error, source string, dialect Dialect) error {
	var e *Error
	if errors.As(err, &e) {
		e.Expr = source
		return e
	}

	var se *syntax.Error
	if !errors.As(err, &se) {
		return &Error{Kind: KindBadPattern, Msg: err.Error(), Expr: source, Err: err}
	}

	msg := se.Code.String()
	if len(se.Args) > 0 {
		msg = fmt.Sprintf(msg, se.Args...)
	}

	return &Error{
		Kind:    syntaxKind(se.Code, dialect),
		Msg:     msg,
		RawCode: string(se.Code),
		Expr:    source,
		Err:     err,
	}
}

func syntaxKind(code syntax.ErrorCode, dialect Dialect) Kind {
	switch code {
	case syntax.ErrUnterminatedBracket, syntax.ErrSubtractionMustBeLast, syntax.ErrBadClassInCharRange:
		return KindBrack
	case syntax.ErrReversedCharRange, syntax.ErrInvalidCharRange:
		return KindRange
	case syntax.ErrMissingParen, syntax.ErrUnexpectedParen, syntax.ErrUnrecognizedGrouping,
		syntax.ErrUnterminatedComment:
		return KindParen
	case syntax.ErrMissingBrace:
		if dialect == DialectNative {
			return KindBadBrace
		}
		return KindBrace
	case syntax.ErrInvalidRepeatSize:
		return KindBadBrace
	case syntax.ErrInvalidRepeatOp, syntax.ErrMissingRepeatArgument:
		return KindBadRepeat
	case syntax.ErrUndefinedBackRef, syntax.ErrUndefinedNameRef, syntax.ErrMalformedNameRef,
		syntax.ErrCapNumNotZero, syntax.ErrCaptureGroupOutOfRange, syntax.ErrUndefinedReference,
		syntax.ErrMalformedReference:
		return KindBackref
	case syntax.ErrIllegalEndEscape, syntax.ErrUnrecognizedEscape, syntax.ErrMissingControl,
		syntax.ErrUnrecognizedControl, syntax.ErrTooFewHex, syntax.ErrInvalidHex:
		return KindEscape
	case syntax.ErrMalformedSlashP, syntax.ErrIncompleteSlashP, syntax.ErrUnknownSlashP:
		return KindCtype
	}

	return KindBadPattern
}
