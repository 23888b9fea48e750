// ABOUTME: Tests for document JSON serialization
// ABOUTME: Verifies lossless round-trip of documents, versions and metadata

package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	d := New("Chapter One", "chapter", "It was a dark and stormy night.")
	d.AddTag("chapter")
	d.AddTag("draft")
	d.SetMeta("location", StringValue("New York"))
	d.SetMeta("act", NumberValue(1))
	d.SetMeta("final", BoolValue(false))
	d.SetMeta("characters", ListValue([]string{"John", "Sarah"}))
	d.SetContent("It was a bright and sunny day.", true, "author", "rewrite")

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}

	var restored Document
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal document: %v", err)
	}

	if restored.ID() != d.ID() {
		t.Errorf("Expected id %s, got %s", d.ID(), restored.ID())
	}
	if restored.Title() != d.Title() || restored.Type() != d.Type() {
		t.Errorf("Expected title/type to survive, got %q/%q", restored.Title(), restored.Type())
	}
	if restored.Content() != d.Content() {
		t.Errorf("Expected content %q, got %q", d.Content(), restored.Content())
	}
	if restored.CurrentVersion() != d.CurrentVersion() {
		t.Errorf("Expected current version %d, got %d", d.CurrentVersion(), restored.CurrentVersion())
	}
	if restored.WordCount() != d.WordCount() || restored.CharCount() != d.CharCount() {
		t.Errorf("Expected counts recomputed to %d/%d, got %d/%d",
			d.WordCount(), d.CharCount(), restored.WordCount(), restored.CharCount())
	}

	versions := restored.Versions()
	if len(versions) != 1 {
		t.Fatalf("Expected 1 version, got %d", len(versions))
	}
	orig := d.Versions()[0]
	if versions[0].VersionNumber != orig.VersionNumber ||
		versions[0].Content != orig.Content ||
		versions[0].CreatedBy != orig.CreatedBy ||
		versions[0].Comment != orig.Comment {
		t.Errorf("Expected version to round-trip, got %+v", versions[0])
	}
	if !versions[0].CreatedAt.Equal(orig.CreatedAt) {
		t.Errorf("Expected timestamp %v, got %v", orig.CreatedAt, versions[0].CreatedAt)
	}

	if got, _ := restored.Meta("location"); got.Str != "New York" {
		t.Errorf("Expected string metadata to survive, got %+v", got)
	}
	if got, _ := restored.Meta("act"); got.Kind != KindNumber || got.Num != 1 {
		t.Errorf("Expected number metadata to survive, got %+v", got)
	}
	if got, _ := restored.Meta("characters"); got.Kind != KindStringList || len(got.List) != 2 {
		t.Errorf("Expected list metadata to survive, got %+v", got)
	}
}

func TestVersionTimestampFormat(t *testing.T) {
	d := New("Chapter", "chapter", "a")
	v := d.CreateVersion("author", "check")

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal version: %v", err)
	}

	// RFC 3339 timestamps on the wire.
	if !strings.Contains(string(data), `"created_at":"`+v.CreatedAt.Format("2006-01-02T")) {
		t.Errorf("Expected RFC 3339 created_at in %s", string(data))
	}

	var back Version
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Failed to unmarshal version: %v", err)
	}
	if !back.CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("Expected timestamp to round-trip, got %v want %v", back.CreatedAt, v.CreatedAt)
	}
}

func TestUnmarshalRejectsMissingID(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte(`{"title":"x"}`), &d); err == nil {
		t.Error("Expected error for document without id")
	}
}

func TestUnmarshalClampsHistoryBound(t *testing.T) {
	payload := `{
		"id": "doc-1",
		"title": "T",
		"type": "note",
		"content": "body",
		"current_version": 9,
		"max_versions": 2,
		"versions": [
			{"document_id":"doc-1","version_number":6,"title":"T","content":"a","created_at":"2026-01-01T00:00:00Z"},
			{"document_id":"doc-1","version_number":7,"title":"T","content":"b","created_at":"2026-01-02T00:00:00Z"},
			{"document_id":"doc-1","version_number":8,"title":"T","content":"c","created_at":"2026-01-03T00:00:00Z"}
		],
		"tags": [],
		"metadata": {},
		"created_at": "2026-01-01T00:00:00Z",
		"updated_at": "2026-01-03T00:00:00Z"
	}`

	var d Document
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	versions := d.Versions()
	if len(versions) != 2 {
		t.Fatalf("Expected history truncated to max_versions=2, got %d", len(versions))
	}
	if versions[0].VersionNumber != 7 || versions[1].VersionNumber != 8 {
		t.Errorf("Expected newest versions retained, got %d and %d",
			versions[0].VersionNumber, versions[1].VersionNumber)
	}
}
