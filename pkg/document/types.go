// ABOUTME: Versioned document data model
// ABOUTME: Defines Document with bounded snapshot history and Version records

package document

import "time"

// DefaultMaxVersions is the snapshot ring bound used when none is configured.
const DefaultMaxVersions = 10

// Version is an immutable capture of a document's content and title at a
// point in time. Versions are owned exclusively by their document and are
// destroyed only by eviction from its history ring.
type Version struct {
	DocumentID    string    `json:"document_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	Comment       string    `json:"comment,omitempty"`
}

// Document holds mutable text content plus a bounded FIFO ring of prior
// snapshots. A Document is owned by a single logical writer at a time;
// callers that share one across goroutines must serialize access externally.
type Document struct {
	id             string
	title          string
	docType        string
	content        string
	currentVersion int
	maxVersions    int
	versions       []Version
	tags           []string
	metadata       map[string]Value
	createdAt      time.Time
	updatedAt      time.Time
	wordCount      int
	charCount      int
}

// ID returns the immutable document identifier.
func (d *Document) ID() string { return d.id }

// Title returns the current title.
func (d *Document) Title() string { return d.title }

// Type returns the document type (e.g. "chapter", "scene", "note").
func (d *Document) Type() string { return d.docType }

// Content returns the current text body.
func (d *Document) Content() string { return d.content }

// CurrentVersion returns the version counter. It starts at 1 and counts every
// snapshot ever taken; eviction never decrements it.
func (d *Document) CurrentVersion() int { return d.currentVersion }

// MaxVersions returns the snapshot ring bound.
func (d *Document) MaxVersions() int { return d.maxVersions }

// WordCount returns the number of whitespace-delimited tokens in the content.
func (d *Document) WordCount() int { return d.wordCount }

// CharCount returns the number of non-whitespace runes in the content.
func (d *Document) CharCount() int { return d.charCount }

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }
