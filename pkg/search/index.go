// ABOUTME: Document search index implementation
// ABOUTME: Text, metadata, tag and advanced queries over live documents

package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nainya/scribestore/pkg/document"
)

// Index answers ad hoc queries over a caller-supplied document collection.
// It holds non-owning references and reads live document content at query
// time; there is no snapshot isolation against a concurrent writer. Apart
// from configuration and the document map it is stateless between calls.
type Index struct {
	cfg  Config
	docs map[string]*document.Document
}

// NewIndex creates an index with the given configuration. Zero fields take
// the package defaults.
func NewIndex(cfg Config) *Index {
	return &Index{
		cfg:  cfg.withDefaults(),
		docs: make(map[string]*document.Document),
	}
}

// SetDocuments replaces the document collection. The map is copied; the
// documents are not.
func (ix *Index) SetDocuments(docs map[string]*document.Document) {
	next := make(map[string]*document.Document, len(docs))
	for id, d := range docs {
		if d != nil {
			next[id] = d
		}
	}
	ix.docs = next
}

// Config returns the effective configuration.
func (ix *Index) Config() Config { return ix.cfg }

// SearchText finds every occurrence of query in document content, reporting
// the matched text, a context window, the byte offset and the 1-based line
// number. Results are capped at Config.MaxResults across all documents.
// An empty query yields no results.
func (ix *Index) SearchText(query string, opts TextOptions) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}
	return ix.searchTextIn(ix.sortedIDs(opts.DocumentTypes), query, opts.CaseSensitive, opts.WholeWord)
}

func (ix *Index) searchTextIn(ids []string, query string, caseSensitive, wholeWord bool) ([]SearchResult, error) {
	re, err := compileMatcher(query, caseSensitive, wholeWord)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for _, id := range ids {
		doc := ix.docs[id]
		content := doc.Content()

		for _, loc := range re.FindAllStringIndex(content, -1) {
			results = append(results, SearchResult{
				DocumentID:     doc.ID(),
				DocumentTitle:  doc.Title(),
				DocumentType:   doc.Type(),
				MatchText:      content[loc[0]:loc[1]],
				Context:        contextWindow(content, loc[0], loc[1], ix.cfg.ContextSize),
				Position:       loc[0],
				LineNumber:     strings.Count(content[:loc[0]], "\n") + 1,
				RelevanceScore: scoreText,
			})
			if len(results) >= ix.cfg.MaxResults {
				return results, nil
			}
		}
	}
	return results, nil
}

// SearchMetadata finds documents whose metadata holds value under key.
// String values compare case-insensitively; every other kind compares by
// exact equality.
func (ix *Index) SearchMetadata(key string, value document.Value) ([]SearchResult, error) {
	var results []SearchResult
	for _, id := range ix.sortedIDs(nil) {
		doc := ix.docs[id]
		stored, ok := doc.Meta(key)
		if !ok || !metadataMatches(stored, value) {
			continue
		}

		results = append(results, SearchResult{
			DocumentID:     doc.ID(),
			DocumentTitle:  doc.Title(),
			DocumentType:   doc.Type(),
			MatchText:      fmt.Sprintf("%s = %s", key, stored.String()),
			Context:        fmt.Sprintf("Metadata match: %s = %s", key, stored.String()),
			MetadataMatch:  true,
			RelevanceScore: scoreMetadata,
		})
		if len(results) >= ix.cfg.MaxResults {
			break
		}
	}
	return results, nil
}

// SearchTags finds documents carrying the queried tags. Comparison is
// case-insensitive. With matchAll every tag must be present; otherwise one
// suffices. Results list the document's matching tags in their original case.
func (ix *Index) SearchTags(tags []string, matchAll bool) ([]SearchResult, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	queried := make([]string, len(tags))
	for i, tag := range tags {
		queried[i] = strings.ToLower(tag)
	}

	var results []SearchResult
	for _, id := range ix.sortedIDs(nil) {
		doc := ix.docs[id]
		matched := matchTags(doc.Tags(), queried, matchAll)
		if len(matched) == 0 {
			continue
		}

		results = append(results, SearchResult{
			DocumentID:     doc.ID(),
			DocumentTitle:  doc.Title(),
			DocumentType:   doc.Type(),
			MatchText:      strings.Join(matched, ", "),
			Context:        "Matched tags: " + strings.Join(matched, ", "),
			TagMatch:       true,
			RelevanceScore: scoreTag * float64(len(matched)) / float64(len(queried)),
		})
		if len(results) >= ix.cfg.MaxResults {
			break
		}
	}
	return results, nil
}

// AdvancedQuery combines text search with type, metadata and tag filters.
type AdvancedQuery struct {
	Text          string
	Metadata      map[string]document.Value // all pairs must match
	Tags          []string
	MatchAllTags  bool
	DocumentTypes []string
	CaseSensitive bool
	WholeWord     bool
}

// AdvancedSearch narrows the document set by type, then metadata, then tags,
// and runs a text search over the survivors. Without a text query it emits
// one criteria-match result per surviving document; with no criteria at all,
// one per document. The cap still applies.
func (ix *Index) AdvancedSearch(q AdvancedQuery) ([]SearchResult, error) {
	ids := ix.sortedIDs(q.DocumentTypes)

	if len(q.Metadata) > 0 {
		keys := make([]string, 0, len(q.Metadata))
		for k := range q.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var kept []string
		for _, id := range ids {
			doc := ix.docs[id]
			ok := true
			for _, k := range keys {
				stored, found := doc.Meta(k)
				if !found || !metadataMatches(stored, q.Metadata[k]) {
					ok = false
					break
				}
			}
			if ok {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	if len(q.Tags) > 0 {
		queried := make([]string, len(q.Tags))
		for i, tag := range q.Tags {
			queried[i] = strings.ToLower(tag)
		}

		var kept []string
		for _, id := range ids {
			if len(matchTags(ix.docs[id].Tags(), queried, q.MatchAllTags)) > 0 {
				kept = append(kept, id)
			}
		}
		ids = kept
	}

	if q.Text != "" {
		return ix.searchTextIn(ids, q.Text, q.CaseSensitive, q.WholeWord)
	}

	var results []SearchResult
	for _, id := range ids {
		doc := ix.docs[id]
		results = append(results, SearchResult{
			DocumentID:     doc.ID(),
			DocumentTitle:  doc.Title(),
			DocumentType:   doc.Type(),
			Context:        "Document matched the search criteria",
			RelevanceScore: scoreCriteria,
		})
		if len(results) >= ix.cfg.MaxResults {
			break
		}
	}
	return results, nil
}

// HighlightMatches wraps every occurrence of query in text with the
// highlight markers, left to right and non-overlapping. Empty text or query
// returns text unchanged.
func (ix *Index) HighlightMatches(text, query string, opts HighlightOptions) (string, error) {
	if text == "" || query == "" {
		return text, nil
	}
	if opts.Prefix == "" && opts.Suffix == "" {
		opts.Prefix, opts.Suffix = "**", "**"
	}

	re, err := compileMatcher(query, opts.CaseSensitive, opts.WholeWord)
	if err != nil {
		return text, err
	}

	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text) + len(locs)*(len(opts.Prefix)+len(opts.Suffix)))
	prev := 0
	for _, loc := range locs {
		b.WriteString(text[prev:loc[0]])
		b.WriteString(opts.Prefix)
		b.WriteString(text[loc[0]:loc[1]])
		b.WriteString(opts.Suffix)
		prev = loc[1]
	}
	b.WriteString(text[prev:])
	return b.String(), nil
}

// sortedIDs returns document ids in lexicographic order, optionally filtered
// by document type. Sorting makes result truncation deterministic.
func (ix *Index) sortedIDs(types []string) []string {
	ids := make([]string, 0, len(ix.docs))
	for id, doc := range ix.docs {
		if len(types) > 0 && !containsString(types, doc.Type()) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// metadataMatches applies the search comparison policy: strings fold case,
// everything else is exact.
func metadataMatches(stored, want document.Value) bool {
	if stored.Kind == document.KindString && want.Kind == document.KindString {
		return strings.EqualFold(stored.Str, want.Str)
	}
	return stored.Equal(want)
}

// matchTags returns the original-case document tags matched by the lowered
// query tags, or nil when the AND/OR requirement is not met.
func matchTags(docTags, queried []string, matchAll bool) []string {
	lowered := make(map[string]string, len(docTags))
	for _, t := range docTags {
		lowered[strings.ToLower(t)] = t
	}

	var matched []string
	for _, q := range queried {
		if orig, ok := lowered[q]; ok {
			matched = append(matched, orig)
		} else if matchAll {
			return nil
		}
	}
	return matched
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
