package regcompat

import "strings"

// Flag is a set of compile options.
type Flag uint8

const (
	// ICase makes matching case-insensitive.
	ICase Flag = 1 << iota
	// Multiline lets '.' match line terminators.
	Multiline
	// ECMAScript selects the JavaScript-like dialect. It is the default when
	// no dialect flag is set.
	ECMAScript
	// Native selects the Oniguruma/Ruby dialect.
	Native
)

func (f Flag) String() string {
	if f == 0 {
		return "0"
	}

	var parts []string
	for _, v := range []struct {
		flag Flag
		name string
	}{
		{ICase, "ICase"},
		{Multiline, "Multiline"},
		{ECMAScript, "ECMAScript"},
		{Native, "Native"},
	} {
		if f&v.flag != 0 {
			parts = append(parts, v.name)
		}
	}

	return strings.Join(parts, "|")
}

// Dialect is the pattern syntax a Pattern was compiled with.
type Dialect uint8

const (
	DialectECMAScript Dialect = iota
	DialectNative
)

func (d Dialect) String() string {
	if d == DialectNative {
		return "native"
	}

	return "ecmascript"
}

func (f Flag) dialect() (Dialect, error) {
	switch {
	case f&ECMAScript != 0 && f&Native != 0:
		return 0, ErrAmbiguousDialect
	case f&Native != 0:
		return DialectNative, nil
	default:
		return DialectECMAScript, nil
	}
}
