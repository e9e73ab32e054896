// Package corpus stores the extracted text of each record as <id>.txt.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ext = ".txt"

// Store is a directory of per-record text files.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a record id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+ext)
}

// Save writes "<title>\n\n<text>" for id and returns the file path.
func (s *Store) Save(id, title, text string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating text directory: %w", err)
	}
	path := s.Path(id)
	if err := os.WriteFile(path, []byte(title+"\n\n"+text), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Load returns the stored text for id.
func (s *Store) Load(id string) (string, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return "", fmt.Errorf("reading document %s: %w", id, err)
	}
	return string(data), nil
}

// List returns the ids of every stored document, sorted. A missing directory
// is an empty corpus.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(ids)
	return ids, nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid record id %q", id)
	}
	return nil
}
