package extract

import "github.com/PuerkitoBio/goquery"

// Text extracts the first matched node's text, cleaned, or def when the
// query matches nothing or the cleaned text is empty. Any panic during
// selection (malformed selector, unexpected document shape) also resolves
// to def.
func Text(doc *goquery.Document, q Query, def string) (out string) {
	defer func() {
		if recover() != nil {
			out = def
		}
	}()
	if doc == nil {
		return def
	}
	sel := q.Select(doc)
	if sel == nil || sel.Length() == 0 {
		return def
	}
	s := CollapseSpace(sel.First().Text())
	if s == "" {
		return def
	}
	return s
}

// TextTruncated extracts like Text, then truncates at the first occurrence
// of marker before trimming.
func TextTruncated(doc *goquery.Document, q Query, marker, def string) string {
	s := Text(doc, q, "")
	if s == "" {
		return def
	}
	s = TruncateAt(s, marker)
	if s == "" {
		return def
	}
	return s
}

// Number extracts the first matched node's text and cleans it to a float.
// Missing, empty, or unparseable values resolve to nil.
func Number(doc *goquery.Document, q Query) *float64 {
	s := Text(doc, q, "")
	if s == "" {
		return nil
	}
	return CleanNumber(s)
}

// Date extracts the first matched node's text and pulls an embedded
// M/D/YYYY date out of it, reformatted to ISO. Missing resolves to "".
func Date(doc *goquery.Document, q Query) string {
	s := Text(doc, q, "")
	if s == "" {
		return ""
	}
	return CleanDate(s)
}
