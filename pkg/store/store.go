// ABOUTME: JSON file persistence for documents
// ABOUTME: One document per file, atomic writes via rename

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nainya/scribestore/pkg/document"
)

// FileStore persists documents as one JSON file per document under a data
// directory. It realizes the serialization contract of the surrounding
// persistence layer; the in-memory Document stays the source of truth.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the full document state, including retained versions. The
// write goes through a temp file and rename so a crash never leaves a
// half-written document behind.
func (fs *FileStore) Save(doc *document.Document) error {
	if err := validateID(doc.ID()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", doc.ID(), err)
	}

	path := fs.path(doc.ID())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", doc.ID(), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit document %s: %w", doc.ID(), err)
	}
	return nil
}

// Load reads a single document by id. The boolean is false when no file
// exists for the id.
func (fs *FileStore) Load(id string) (*document.Document, bool, error) {
	if err := validateID(id); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(fs.path(id))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read document %s: %w", id, err)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode document %s: %w", id, err)
	}
	return &doc, true, nil
}

// LoadAll reads every persisted document into an id-keyed map. Temp files
// from interrupted writes are skipped.
func (fs *FileStore) LoadAll() (map[string]*document.Document, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", fs.dir, err)
	}

	docs := make(map[string]*document.Document)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(fs.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		var doc document.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		docs[doc.ID()] = &doc
	}
	return docs, nil
}

// Delete removes a persisted document. Deleting an absent document is not an
// error.
func (fs *FileStore) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := os.Remove(fs.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

func (fs *FileStore) path(id string) string {
	return filepath.Join(fs.dir, id+".json")
}

// validateID rejects ids that could escape the data directory.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("document id is required")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid document id: %q", id)
	}
	return nil
}
