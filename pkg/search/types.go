// ABOUTME: Search configuration and result types
// ABOUTME: Defines Config, query option structs and SearchResult

package search

// Defaults applied when a Config field is zero or negative.
const (
	DefaultContextSize = 50
	DefaultMaxResults  = 100
)

// Relevance scores by result provenance. Text matches rank highest, then tag
// and metadata matches, then criteria-only matches from advanced search.
const (
	scoreText     = 1.0
	scoreTag      = 0.9
	scoreMetadata = 0.8
	scoreCriteria = 0.5
)

// Config controls context window size and the global result cap. It is passed
// explicitly at construction; there is no ambient configuration.
type Config struct {
	ContextSize int // characters of context on each side of a match
	MaxResults  int // cap across all documents per query
}

func (c Config) withDefaults() Config {
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// SearchResult is an ephemeral query result. It has no identity beyond its
// field values and is never mutated after construction.
type SearchResult struct {
	DocumentID     string  `json:"document_id"`
	DocumentTitle  string  `json:"document_title"`
	DocumentType   string  `json:"document_type"`
	MatchText      string  `json:"match_text"`
	Context        string  `json:"context"`
	Position       int     `json:"position"`
	LineNumber     int     `json:"line_number"`
	MetadataMatch  bool    `json:"metadata_match"`
	TagMatch       bool    `json:"tag_match"`
	RelevanceScore float64 `json:"relevance_score"`
}

// TextOptions modify text search behavior.
type TextOptions struct {
	CaseSensitive bool
	WholeWord     bool
	DocumentTypes []string // nil means all types
}

// HighlightOptions modify match highlighting. Empty Prefix and Suffix default
// to "**".
type HighlightOptions struct {
	CaseSensitive bool
	WholeWord     bool
	Prefix        string
	Suffix        string
}
