// Package svgdom wraps the lenient HTML5 parser behind the small query
// surface the pipeline needs. The parser never rejects malformed markup, so
// strict well-formedness is the validator's job; this package only answers
// element and attribute lookups.
package svgdom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a queryable document from raw markup. Malformed input still
// yields a document; missing structure shows up as empty query results.
func Parse(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc, nil
}

// Attr looks up an attribute tolerating the HTML5 parser's case handling.
// Inside SVG foreign content the parser restores the canonical case of known
// attributes (viewBox and friends) but lowercases everything else, so both
// spellings are tried.
func Attr(s *goquery.Selection, name string) (string, bool) {
	if val, ok := s.Attr(name); ok {
		return val, true
	}
	return s.Attr(strings.ToLower(name))
}

// Style parses an inline style attribute into a property map. Keys are
// lowercased; malformed declarations are skipped.
func Style(s *goquery.Selection) map[string]string {
	raw, ok := Attr(s, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	props := make(map[string]string)
	for _, decl := range strings.Split(raw, ";") {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if key != "" && val != "" {
			props[key] = val
		}
	}
	return props
}

// Locator renders a human-readable element locator (tag#id) for diagnostics.
func Locator(s *goquery.Selection) string {
	tag := goquery.NodeName(s)
	if id, ok := Attr(s, "id"); ok && id != "" {
		return tag + "#" + id
	}
	return tag
}
