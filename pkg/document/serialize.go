// ABOUTME: JSON serialization for documents and versions
// ABOUTME: Lossless round-trip with RFC 3339 timestamps for the persistence layer

package document

import (
	"encoding/json"
	"fmt"
	"time"
)

// documentJSON is the wire shape of a document. time.Time fields serialize as
// RFC 3339, which satisfies the ISO-8601 contract of the persistence layer.
type documentJSON struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Type           string           `json:"type"`
	Content        string           `json:"content"`
	CurrentVersion int              `json:"current_version"`
	MaxVersions    int              `json:"max_versions"`
	Versions       []Version        `json:"versions"`
	Tags           []string         `json:"tags"`
	Metadata       map[string]Value `json:"metadata"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	WordCount      int              `json:"word_count"`
	CharCount      int              `json:"char_count"`
}

// MarshalJSON serializes the full document state, including retained versions.
func (d *Document) MarshalJSON() ([]byte, error) {
	versions := d.versions
	if versions == nil {
		versions = []Version{}
	}
	tags := d.tags
	if tags == nil {
		tags = []string{}
	}

	return json.Marshal(documentJSON{
		ID:             d.id,
		Title:          d.title,
		Type:           d.docType,
		Content:        d.content,
		CurrentVersion: d.currentVersion,
		MaxVersions:    d.maxVersions,
		Versions:       versions,
		Tags:           tags,
		Metadata:       d.metadata,
		CreatedAt:      d.createdAt,
		UpdatedAt:      d.updatedAt,
		WordCount:      d.wordCount,
		CharCount:      d.charCount,
	})
}

// UnmarshalJSON reconstructs a document from its serialized state.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	if w.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if w.CurrentVersion < 1 {
		w.CurrentVersion = 1
	}
	if w.MaxVersions < 1 {
		w.MaxVersions = DefaultMaxVersions
	}
	if w.Metadata == nil {
		w.Metadata = make(map[string]Value)
	}

	d.id = w.ID
	d.title = w.Title
	d.docType = w.Type
	d.content = w.Content
	d.currentVersion = w.CurrentVersion
	d.maxVersions = w.MaxVersions
	d.versions = w.Versions
	d.tags = w.Tags
	d.metadata = w.Metadata
	d.createdAt = w.CreatedAt
	d.updatedAt = w.UpdatedAt
	d.recalculateCounts()
	d.evict(d.maxVersions)
	return nil
}
