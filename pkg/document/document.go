// ABOUTME: Versioned document operations
// ABOUTME: Snapshot creation, content mutation, restore and history eviction

package document

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// New creates a document with a fresh identifier. The initial state is
// "version 1" and is not itself snapshotted; the first snapshot taken will be
// numbered 2.
func New(title, docType, content string) *Document {
	now := time.Now().UTC()
	d := &Document{
		id:             uuid.NewString(),
		title:          title,
		docType:        docType,
		content:        content,
		currentVersion: 1,
		maxVersions:    DefaultMaxVersions,
		metadata:       make(map[string]Value),
		createdAt:      now,
		updatedAt:      now,
	}
	d.recalculateCounts()
	return d
}

// CreateVersion snapshots the current content and title, increments the
// version counter and appends the snapshot to the history ring, evicting the
// oldest entries past MaxVersions. It always succeeds.
func (d *Document) CreateVersion(createdBy, comment string) Version {
	d.currentVersion++
	v := Version{
		DocumentID:    d.id,
		VersionNumber: d.currentVersion,
		Title:         d.title,
		Content:       d.content,
		CreatedAt:     time.Now().UTC(),
		CreatedBy:     createdBy,
		Comment:       comment,
	}
	d.versions = append(d.versions, v)
	d.evict(d.maxVersions)
	return v
}

// SetContent replaces the document body. When snapshot is true and the new
// content differs from the current content, the prior state is captured as a
// version first. Word and character counts are recomputed.
func (d *Document) SetContent(content string, snapshot bool, createdBy, comment string) {
	if snapshot && content != d.content {
		d.CreateVersion(createdBy, comment)
	}
	d.content = content
	d.updatedAt = time.Now().UTC()
	d.recalculateCounts()
}

// AppendContent concatenates suffix onto the body. Snapshotting is gated on
// the suffix being non-empty, since a non-empty append is never a no-op.
func (d *Document) AppendContent(suffix string, snapshot bool, createdBy, comment string) {
	if snapshot && suffix != "" {
		d.CreateVersion(createdBy, comment)
	}
	d.content += suffix
	d.updatedAt = time.Now().UTC()
	d.recalculateCounts()
}

// SetTitle replaces the document title.
func (d *Document) SetTitle(title string) {
	d.title = title
	d.updatedAt = time.Now().UTC()
}

// GetVersion looks up a retained snapshot by version number. Evicted or
// never-assigned numbers (including zero and negatives) report false.
func (d *Document) GetVersion(versionNumber int) (Version, bool) {
	for _, v := range d.versions {
		if v.VersionNumber == versionNumber {
			return v, true
		}
	}
	return Version{}, false
}

// Versions returns the retained snapshots, oldest first. The returned slice
// is an owned copy; later document mutation does not affect it.
func (d *Document) Versions() []Version {
	return append([]Version(nil), d.versions...)
}

// RestoreVersion overwrites content and title from a retained snapshot.
// When snapshot is true the pre-restore state is captured first, with a
// default comment when the caller supplies none. Returns false and leaves the
// document unchanged when the version is not retained.
func (d *Document) RestoreVersion(versionNumber int, snapshot bool, createdBy, comment string) bool {
	v, ok := d.GetVersion(versionNumber)
	if !ok {
		return false
	}

	if snapshot {
		if comment == "" {
			comment = fmt.Sprintf("Before restoring version %d", versionNumber)
		}
		d.CreateVersion(createdBy, comment)
	}

	d.content = v.Content
	d.title = v.Title
	d.updatedAt = time.Now().UTC()
	d.recalculateCounts()
	return true
}

// SetMaxVersions reconfigures the history bound. Values below 1 are clamped
// to 1. Shrinking evicts the oldest snapshots immediately; the version
// counter is unaffected.
func (d *Document) SetMaxVersions(n int) {
	if n < 1 {
		n = 1
	}
	d.maxVersions = n
	d.evict(n)
}

// evict drops snapshots from the front until at most limit remain.
func (d *Document) evict(limit int) {
	if len(d.versions) > limit {
		d.versions = append(d.versions[:0:0], d.versions[len(d.versions)-limit:]...)
	}
}

// AddTag appends a tag, preserving insertion order and ignoring duplicates.
func (d *Document) AddTag(tag string) {
	if d.HasTag(tag) {
		return
	}
	d.tags = append(d.tags, tag)
	d.updatedAt = time.Now().UTC()
}

// RemoveTag deletes a tag if present.
func (d *Document) RemoveTag(tag string) {
	for i, t := range d.tags {
		if t == tag {
			d.tags = append(d.tags[:i:i], d.tags[i+1:]...)
			d.updatedAt = time.Now().UTC()
			return
		}
	}
}

// HasTag reports whether the exact tag is present.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Tags returns an owned copy of the tag list in insertion order.
func (d *Document) Tags() []string {
	return append([]string(nil), d.tags...)
}

// SetMeta stores a metadata value under key.
func (d *Document) SetMeta(key string, value Value) {
	d.metadata[key] = value.clone()
	d.updatedAt = time.Now().UTC()
}

// Meta retrieves a metadata value by key.
func (d *Document) Meta(key string) (Value, bool) {
	v, ok := d.metadata[key]
	if !ok {
		return Value{}, false
	}
	return v.clone(), true
}

// DeleteMeta removes a metadata key if present.
func (d *Document) DeleteMeta(key string) {
	if _, ok := d.metadata[key]; ok {
		delete(d.metadata, key)
		d.updatedAt = time.Now().UTC()
	}
}

// Metadata returns an owned copy of the metadata map.
func (d *Document) Metadata() map[string]Value {
	out := make(map[string]Value, len(d.metadata))
	for k, v := range d.metadata {
		out[k] = v.clone()
	}
	return out
}

func (d *Document) recalculateCounts() {
	d.wordCount = len(strings.Fields(d.content))

	chars := 0
	for _, r := range d.content {
		if !unicode.IsSpace(r) {
			chars++
		}
	}
	d.charCount = chars
}
