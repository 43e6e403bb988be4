package regcompat

// Dialect-sensitive parsing decisions. They are kept out of the tokenizer so
// each can be tested on its own.

// resolveBackref picks the group number denoted by the decimal digits that
// follow a backslash. It consumes the longest prefix of at most two digits
// whose value names a group in 1..bound, dropping trailing digits until one
// does. The unused digits are left for the caller to emit as literals.
//
// In the native dialect bound is the number of groups opened so far, so with
// ten groups declared `\10` is group 10 while with nine it is group 1
// followed by "0". In the ECMAScript dialect bound is the pattern's total
// group count.
func resolveBackref(digits []rune, bound int) (group, used int, ok bool) {
	if len(digits) == 0 || digits[0] == '0' {
		return 0, 0, false
	}

	for n := min(len(digits), maxBackrefDigits); n > 0; n-- {
		v := 0
		for _, d := range digits[:n] {
			v = v*10 + int(d-'0')
		}
		if v <= bound {
			return v, n, true
		}
	}

	return 0, 0, false
}

// duplicateNamesAllowed reports whether a group name may be declared more
// than once. The native dialect allows it; a reference by name then tries the
// groups from last declared to first.
func duplicateNamesAllowed(d Dialect) bool {
	return d == DialectNative
}

// validGroupName reports whether name is acceptable as a group name. The
// ECMAScript dialect takes identifier-like names, the native dialect word
// characters not led by a digit.
func validGroupName(d Dialect, name []rune) bool {
	if len(name) == 0 {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r == '$' && d == DialectECMAScript:
		case r > 0x7f && isWordRune(r):
		default:
			return false
		}
	}

	return true
}

// maxGroups bounds the number of capture groups in one pattern.
const maxGroups = 32767

// maxBackrefDigits bounds a numeric backreference to \1..\99.
const maxBackrefDigits = 2

// maxRepeat bounds interval counts in the native dialect.
const maxRepeat = 100000

// maxDepth bounds group nesting.
const maxDepth = 4096
