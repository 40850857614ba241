package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DirStore resolves documents from a directory of <id>.json files, each
// holding one serialized Document. It backs the export command: the host
// application dumps its documents there before invoking the exporter.
type DirStore struct {
	dir string
}

// Document ids are restricted to a safe filename alphabet.
var regexDocumentID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewDirStore opens a document store over an existing directory.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to open document store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document store %q is not a directory", dir)
	}
	return &DirStore{dir: dir}, nil
}

// Fetch implements FetchFunc. A missing file means the document does not
// exist and resolves to (nil, nil); an unreadable or malformed file is an
// error.
func (s *DirStore) Fetch(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !regexDocumentID.MatchString(id) {
		return nil, fmt.Errorf("invalid document id %q", id)
	}

	content, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read document %q: %w", id, err)
	}

	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse document %q: %w", id, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return &doc, nil
}

// ReadDocument loads a single document file (the export root is passed by
// path, not by id).
func ReadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse document %s: %w", path, err)
	}
	return &doc, nil
}
