// Package extract locates and normalizes field values inside the loosely
// structured HTML the county application serves. Extraction is total: every
// lookup resolves to a value or the caller's default, never an error. Two
// query strategies exist: an absolute structural path for fields with no
// semantic anchor, and a label predicate that survives layout shifts but is
// sensitive to label wording.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Query locates a selection within a parsed document. Implementations must
// tolerate arbitrary markup and return an empty or nil selection rather
// than fail.
type Query interface {
	Select(doc *goquery.Document) *goquery.Selection
}

// PathQuery selects by CSS selector path, optionally narrowed to the nth
// match. Brittle against markup drift; used only where no label exists.
type PathQuery struct {
	Selector string
	Index    int // nth match, 0-based; negative means the whole selection
}

// Path builds a PathQuery over all matches of the selector.
func Path(selector string) PathQuery {
	return PathQuery{Selector: selector, Index: -1}
}

// Nth narrows the query to the nth match.
func (q PathQuery) Nth(i int) PathQuery {
	q.Index = i
	return q
}

func (q PathQuery) Select(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find(q.Selector)
	if q.Index >= 0 {
		sel = sel.Eq(q.Index)
	}
	return sel
}

// LabelQuery selects the cell following the cell whose text matches Label,
// e.g. the value cell beside "Fire Chief:". Matching ignores case, trailing
// colons, and whitespace differences. When Contains is set the label only
// needs to appear within the cell text.
type LabelQuery struct {
	Label    string
	Contains bool
}

// Label builds an exact-match LabelQuery.
func Label(label string) LabelQuery {
	return LabelQuery{Label: label}
}

// LabelContains builds a substring-match LabelQuery.
func LabelContains(label string) LabelQuery {
	return LabelQuery{Label: label, Contains: true}
}

func (q LabelQuery) Select(doc *goquery.Document) *goquery.Selection {
	want := normalizeLabel(q.Label)
	var out *goquery.Selection
	doc.Find("td, th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		got := normalizeLabel(cell.Text())
		if got == "" {
			return true
		}
		match := got == want
		if q.Contains {
			match = strings.Contains(got, want)
		}
		if !match {
			return true
		}
		next := cell.Next()
		if next.Length() == 0 {
			return true // label cell with no value cell; keep looking
		}
		out = next
		return false
	})
	return out // nil when no label matched; callers treat nil as no match
}

// normalizeLabel canonicalizes cell text for label comparison.
func normalizeLabel(s string) string {
	s = CollapseSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.ToLower(strings.TrimSpace(s))
}
