// Package finder implements the find, replace and replace-all actions of an
// editor's search dialog on top of regcompat.
package finder

import (
	"go.dw1.io/regcompat"
)

// Selection is a half-open span [Start, End) of a document, in the
// document's elements.
type Selection struct {
	Start int
	End   int
}

// Len returns the length of the selection.
func (s Selection) Len() int {
	return s.End - s.Start
}

func (s Selection) clamp(n int) Selection {
	s.Start = min(max(s.Start, 0), n)
	s.End = min(max(s.End, s.Start), n)
	return s
}

// Find looks for the next match after the selection. The search covers the
// text from sel.End to the end of the document and then wraps around to
// search the whole document. The bool is false when nothing matches.
func Find(doc regcompat.Range, p *regcompat.Pattern, sel Selection) (Selection, bool, error) {
	sel = sel.clamp(doc.Len())

	m, err := p.Search(doc.Sub(sel.End, doc.Len()), 0)
	if err != nil {
		return sel, false, err
	}
	if m != nil {
		span := m.Span()
		return Selection{Start: sel.End + span.Offset, End: sel.End + span.End()}, true, nil
	}

	if doc.Len() == 0 {
		return sel, false, nil
	}

	m, err = p.Search(doc, 0)
	if err != nil || m == nil {
		return sel, false, err
	}

	span := m.Span()
	return Selection{Start: span.Offset, End: span.End()}, true, nil
}

// Result is the outcome of Replace.
type Result struct {
	// Text is the document after the action.
	Text string
	// Selection is the next match in Text, or the caret after the
	// replacement when Found is false.
	Selection Selection
	// Replaced reports whether the selection was rewritten.
	Replaced bool
	// Found reports whether a next match was selected.
	Found bool
}

// Replace rewrites the selection with the expansion of template if the
// selected text is exactly a match, then selects the next match. A selection
// that is not a match is left alone and the next match is selected.
func Replace(doc regcompat.Range, p *regcompat.Pattern, template string, sel Selection) (Result, error) {
	sel = sel.clamp(doc.Len())
	res := Result{Text: doc.String(), Selection: sel}

	m, err := p.Match(doc.Sub(sel.Start, sel.End))
	if err != nil {
		return res, err
	}

	next := doc
	caret := sel
	if m != nil {
		repl, err := p.Expand(nil, template, m)
		if err != nil {
			return res, err
		}

		res.Text = doc.Sub(0, sel.Start).String() + string(repl) + doc.Sub(sel.End, doc.Len()).String()
		res.Replaced = true

		next = regcompat.Text(res.Text)
		width := len(repl)
		if doc.Wide() {
			next = regcompat.Runes([]rune(res.Text))
			width = len([]rune(string(repl)))
		}
		caret = Selection{Start: sel.Start + width, End: sel.Start + width}
	}

	found, ok, err := Find(next, p, caret)
	if err != nil {
		return res, err
	}

	res.Found = ok
	res.Selection = caret
	if ok {
		res.Selection = found
	}

	return res, nil
}

// ReplaceAll rewrites every match in the document and reports how many
// there were.
func ReplaceAll(doc regcompat.Range, p *regcompat.Pattern, template string) (string, int, error) {
	n := 0
	for _, err := range p.All(doc) {
		if err != nil {
			return doc.String(), 0, err
		}
		n++
	}

	out, err := p.Replace(doc, template, regcompat.ReplaceAll)
	if err != nil {
		return doc.String(), 0, err
	}

	return out, n, nil
}
