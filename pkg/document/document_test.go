// ABOUTME: Tests for versioned document operations
// ABOUTME: Verifies snapshot numbering, eviction, restore and count tracking

package document

import (
	"fmt"
	"testing"
)

func TestVersionNumberingMonotonic(t *testing.T) {
	d := New("Draft", "chapter", "first")

	if d.CurrentVersion() != 1 {
		t.Fatalf("Expected fresh document at version 1, got %d", d.CurrentVersion())
	}

	for i := 1; i <= 5; i++ {
		v := d.CreateVersion("tester", "")
		if v.VersionNumber != 1+i {
			t.Errorf("Call %d: expected version number %d, got %d", i, 1+i, v.VersionNumber)
		}
	}

	if d.CurrentVersion() != 6 {
		t.Errorf("Expected current version 6, got %d", d.CurrentVersion())
	}
}

func TestCreateVersionCapturesCurrentState(t *testing.T) {
	d := New("Opening", "chapter", "Once upon a time.")

	v := d.CreateVersion("alice", "checkpoint")

	if v.Content != "Once upon a time." {
		t.Errorf("Expected snapshot of current content, got %q", v.Content)
	}
	if v.Title != "Opening" {
		t.Errorf("Expected snapshot of current title, got %q", v.Title)
	}
	if v.DocumentID != d.ID() {
		t.Errorf("Expected back-reference to %s, got %s", d.ID(), v.DocumentID)
	}
	if v.CreatedBy != "alice" || v.Comment != "checkpoint" {
		t.Errorf("Expected attribution to survive, got %q/%q", v.CreatedBy, v.Comment)
	}
}

func TestEvictionBound(t *testing.T) {
	d := New("Draft", "chapter", "v0")
	d.SetMaxVersions(3)

	for i := 0; i < 10; i++ {
		d.SetContent(fmt.Sprintf("content %d", i), true, "", "")
	}

	versions := d.Versions()
	if len(versions) != 3 {
		t.Fatalf("Expected 3 retained versions, got %d", len(versions))
	}

	// Retained versions are the most recent, strictly increasing, with gaps
	// only from front eviction.
	for i := 1; i < len(versions); i++ {
		if versions[i].VersionNumber != versions[i-1].VersionNumber+1 {
			t.Errorf("Expected contiguous retained numbers, got %d then %d",
				versions[i-1].VersionNumber, versions[i].VersionNumber)
		}
	}

	if versions[len(versions)-1].VersionNumber != d.CurrentVersion() {
		t.Errorf("Expected newest retained version %d to match counter %d",
			versions[len(versions)-1].VersionNumber, d.CurrentVersion())
	}

	// Eviction never rewinds the counter.
	if d.CurrentVersion() != 11 {
		t.Errorf("Expected current version 11 after 10 snapshots, got %d", d.CurrentVersion())
	}
}

func TestSetContentNoOpAvoidsSnapshot(t *testing.T) {
	d := New("Draft", "chapter", "start")

	d.SetContent("same", true, "", "")
	d.SetContent("same", true, "", "")

	if len(d.Versions()) != 1 {
		t.Errorf("Expected exactly one version after repeated identical content, got %d", len(d.Versions()))
	}
	if d.CurrentVersion() != 2 {
		t.Errorf("Expected current version 2, got %d", d.CurrentVersion())
	}
}

func TestSetContentWithoutSnapshot(t *testing.T) {
	d := New("Draft", "chapter", "start")

	d.SetContent("changed", false, "", "")

	if len(d.Versions()) != 0 {
		t.Errorf("Expected no versions, got %d", len(d.Versions()))
	}
	if d.CurrentVersion() != 1 {
		t.Errorf("Expected current version unchanged at 1, got %d", d.CurrentVersion())
	}
	if d.Content() != "changed" {
		t.Errorf("Expected content overwritten, got %q", d.Content())
	}
}

func TestAppendContentSnapshotGating(t *testing.T) {
	d := New("Draft", "chapter", "abc")

	d.AppendContent("", true, "", "")
	if len(d.Versions()) != 0 {
		t.Errorf("Expected empty append to skip snapshot, got %d versions", len(d.Versions()))
	}

	d.AppendContent("def", true, "", "")
	if len(d.Versions()) != 1 {
		t.Fatalf("Expected one version after non-empty append, got %d", len(d.Versions()))
	}
	if d.Versions()[0].Content != "abc" {
		t.Errorf("Expected snapshot of pre-append content, got %q", d.Versions()[0].Content)
	}
	if d.Content() != "abcdef" {
		t.Errorf("Expected concatenated content, got %q", d.Content())
	}
}

func TestVersioningScenario(t *testing.T) {
	d := New("Story", "chapter", "Initial content.")

	d.SetContent("New content.", true, "", "v2")
	d.SetContent("Newer content.", true, "", "v3")

	if d.CurrentVersion() != 3 {
		t.Errorf("Expected current version 3, got %d", d.CurrentVersion())
	}

	versions := d.Versions()
	if len(versions) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(versions))
	}
	if versions[0].Content != "Initial content." {
		t.Errorf("Expected oldest snapshot 'Initial content.', got %q", versions[0].Content)
	}
	if versions[1].Content != "New content." {
		t.Errorf("Expected second snapshot 'New content.', got %q", versions[1].Content)
	}
	if d.Content() != "Newer content." {
		t.Errorf("Expected live content 'Newer content.', got %q", d.Content())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	d := New("Story", "chapter", "A")

	d.SetContent("B", true, "", "")
	v := d.Versions()[0] // snapshot of A

	if !d.RestoreVersion(v.VersionNumber, true, "", "") {
		t.Fatal("Expected restore to succeed")
	}
	if d.Content() != "A" {
		t.Errorf("Expected restored content 'A', got %q", d.Content())
	}
}

func TestRestoreMissingVersion(t *testing.T) {
	d := New("Story", "chapter", "A")
	d.SetContent("B", true, "", "")

	for _, n := range []int{0, -1, 99} {
		if d.RestoreVersion(n, true, "", "") {
			t.Errorf("Expected restore of version %d to fail", n)
		}
	}

	if d.Content() != "B" {
		t.Errorf("Expected document unchanged after failed restores, got %q", d.Content())
	}
	if d.CurrentVersion() != 2 {
		t.Errorf("Expected version counter unchanged at 2, got %d", d.CurrentVersion())
	}
}

func TestRestoreDefaultComment(t *testing.T) {
	d := New("Story", "chapter", "A")
	d.SetContent("B", true, "", "")
	target := d.Versions()[0].VersionNumber

	if !d.RestoreVersion(target, true, "bob", "") {
		t.Fatal("Expected restore to succeed")
	}

	versions := d.Versions()
	pre := versions[len(versions)-1]
	want := fmt.Sprintf("Before restoring version %d", target)
	if pre.Comment != want {
		t.Errorf("Expected default comment %q, got %q", want, pre.Comment)
	}
	if pre.Content != "B" {
		t.Errorf("Expected pre-restore snapshot of 'B', got %q", pre.Content)
	}
}

func TestSetMaxVersionsClampAndTruncate(t *testing.T) {
	d := New("Story", "chapter", "v0")

	for i := 0; i < 6; i++ {
		d.SetContent(fmt.Sprintf("v%d", i+1), true, "", "")
	}

	d.SetMaxVersions(0) // clamps to 1
	if d.MaxVersions() != 1 {
		t.Errorf("Expected clamp to 1, got %d", d.MaxVersions())
	}

	versions := d.Versions()
	if len(versions) != 1 {
		t.Fatalf("Expected truncation to 1 version, got %d", len(versions))
	}
	if versions[0].VersionNumber != d.CurrentVersion() {
		t.Errorf("Expected newest version retained, got %d", versions[0].VersionNumber)
	}
}

func TestVersionsReturnsOwnedCopy(t *testing.T) {
	d := New("Story", "chapter", "A")
	d.SetContent("B", true, "", "")

	versions := d.Versions()
	versions[0].Content = "tampered"

	if got, _ := d.GetVersion(versions[0].VersionNumber); got.Content == "tampered" {
		t.Error("Expected internal versions to be isolated from returned slice")
	}
}

func TestTagsDedupAndOwnership(t *testing.T) {
	d := New("Story", "chapter", "")

	d.AddTag("chapter")
	d.AddTag("intro")
	d.AddTag("chapter")

	tags := d.Tags()
	if len(tags) != 2 || tags[0] != "chapter" || tags[1] != "intro" {
		t.Errorf("Expected deduplicated ordered tags, got %v", tags)
	}

	tags[0] = "tampered"
	if !d.HasTag("chapter") {
		t.Error("Expected internal tags to be isolated from returned slice")
	}

	d.RemoveTag("chapter")
	if d.HasTag("chapter") || !d.HasTag("intro") {
		t.Errorf("Expected only 'intro' to remain, got %v", d.Tags())
	}
}

func TestMetadataOwnership(t *testing.T) {
	d := New("Story", "chapter", "")
	d.SetMeta("genres", ListValue([]string{"fantasy"}))

	meta := d.Metadata()
	meta["genres"].List[0] = "tampered"

	if v, _ := d.Meta("genres"); v.List[0] != "fantasy" {
		t.Errorf("Expected internal metadata isolated, got %q", v.List[0])
	}

	d.DeleteMeta("genres")
	if _, ok := d.Meta("genres"); ok {
		t.Error("Expected metadata key removed")
	}
}

func TestCountRecalculation(t *testing.T) {
	tests := []struct {
		content   string
		wantWords int
		wantChars int
	}{
		{"", 0, 0},
		{"hello", 1, 5},
		{"hello world", 2, 10},
		{"  spaced   out  ", 2, 9},
		{"line\none\ttab", 3, 10},
	}

	for _, tt := range tests {
		d := New("Counts", "note", tt.content)
		if d.WordCount() != tt.wantWords {
			t.Errorf("Content %q: expected %d words, got %d", tt.content, tt.wantWords, d.WordCount())
		}
		if d.CharCount() != tt.wantChars {
			t.Errorf("Content %q: expected %d chars, got %d", tt.content, tt.wantChars, d.CharCount())
		}
	}
}
