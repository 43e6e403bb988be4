// Package regcompat is a regular expression facade with two pattern
// dialects over one pattern, match and replace API.
//
// The ECMAScript dialect, the default, follows JavaScript regular expression
// syntax. The native dialect follows Oniguruma's Ruby syntax: named groups
// (?<name>...) and (?'name'...), backreferences \1 to \99, \k<name>,
// \k'name' and \k<-1>, inline options, atomic groups, possessive quantifiers
// and POSIX bracket classes. Constructs with no faithful translation fail to
// compile with [KindBadPattern] instead of being approximated.
//
// Patterns run on [regexp2]. Those whose translation means the same in RE2
// syntax are also compiled with coregex, which serves searches that cannot
// observe a difference.
//
// The native dialect needs the process-wide library context:
//
//	g, err := regcompat.Init()
//	if err != nil {
//		return err
//	}
//	defer g.Close()
//
//	p, err := regcompat.Compile(`(?<word>\w+)\s+\k<word>`, regcompat.Native)
//
// # Ranges
//
// Searches run over a [Range], a borrowed view of narrow (UTF-8) or wide
// (rune) text. Offsets are bytes for narrow text and runes for wide text.
//
// # Replacement templates
//
// A template is literal text with these substitutions:
//
//	$$        a literal '$'
//	$& or $0  the whole match
//	$n, $nn   group n; two digits are read when they name an existing group
//	${n}      group n
//	${name}   the group called name
//	$<name>   the group called name
//	$`        the text before the match
//	$'        the text after the match
//
// Any other '$', including a trailing one, is literal. Referring to a group
// or name the pattern does not have is a [*TemplateError], reported before
// any text is scanned. Unmatched groups expand to "".
//
// # Errors
//
// Compilation failures are [*Error] values classified by [Kind]. Each kind
// has a code in the [EncodingNative] table, the [EncodingStandard] table,
// or both. [NativeCodes] and [StandardCodes] list the tables.
package regcompat
