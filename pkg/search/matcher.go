// ABOUTME: Query-to-matcher compilation
// ABOUTME: Literal matching with one uniform word-boundary definition

package search

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// compileMatcher builds the matcher for a query. Queries are literal: regexp
// metacharacters in them are quoted, never interpreted. Whole-word matching
// anchors both ends on \b, for single words and phrases alike. A space is a
// word boundary, so whole-word "York" matches inside "New York", and the
// phrase "New York" matches as a unit; "Yor" matches nothing.
func compileMatcher(query string, caseSensitive, wholeWord bool) (*regexp.Regexp, error) {
	pattern := regexp.QuoteMeta(query)
	if wholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !caseSensitive {
		pattern = `(?i)` + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", query, err)
	}
	return re, nil
}

// contextWindow returns text surrounding [start,end) padded by size bytes on
// each side, clamped to the string and snapped outward to rune boundaries.
func contextWindow(s string, start, end, size int) string {
	lo := start - size
	if lo < 0 {
		lo = 0
	}
	for lo > 0 && !utf8.RuneStart(s[lo]) {
		lo--
	}

	hi := end + size
	if hi > len(s) {
		hi = len(s)
	}
	for hi < len(s) && !utf8.RuneStart(s[hi]) {
		hi++
	}

	return s[lo:hi]
}
