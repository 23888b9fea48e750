// ABOUTME: Search suggestion generation
// ABOUTME: Prefix-first candidate ranking over titles, tags and metadata keys

package search

import (
	"sort"
	"strings"
)

// DefaultMaxSuggestions bounds suggestion lists when no limit is given.
const DefaultMaxSuggestions = 10

// Suggestions returns candidate query strings containing partial, drawn from
// document titles, tags and metadata keys. Candidates starting with partial
// sort before those merely containing it; ties break lexicographically.
// An empty partial or an empty collection yields nothing.
func (ix *Index) Suggestions(partial string, max int) []string {
	if partial == "" || len(ix.docs) == 0 {
		return nil
	}
	if max <= 0 {
		max = DefaultMaxSuggestions
	}

	needle := strings.ToLower(partial)
	seen := make(map[string]struct{})
	var prefixed, contained []string

	add := func(candidate string) {
		if candidate == "" {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		lower := strings.ToLower(candidate)
		if !strings.Contains(lower, needle) {
			return
		}
		seen[candidate] = struct{}{}
		if strings.HasPrefix(lower, needle) {
			prefixed = append(prefixed, candidate)
		} else {
			contained = append(contained, candidate)
		}
	}

	for _, id := range ix.sortedIDs(nil) {
		doc := ix.docs[id]
		add(doc.Title())
		for _, tag := range doc.Tags() {
			add(tag)
		}
		for key := range doc.Metadata() {
			add(key)
		}
	}

	sort.Strings(prefixed)
	sort.Strings(contained)

	out := append(prefixed, contained...)
	if len(out) > max {
		out = out[:max]
	}
	return out
}
