// Package store loads every template definition found in a filesystem and
// indexes the results by template key. A Store is immutable after LoadFS and
// safe for concurrent readers.
package store

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-contentdef/pkg/template"
)

// Store keeps the parsed templates of a directory.
type Store struct {
	templates map[string]template.Definition
	sources   map[string]string
}

// LoadFS walks fsys and loads every *.xml file through reader. Files are
// visited in lexical order. Any invalid template or two templates sharing a
// key abort the load. A nil fsys yields an empty store.
func LoadFS(ctx context.Context, fsys fs.FS, reader *template.Reader) (*Store, error) {
	store := &Store{
		templates: make(map[string]template.Definition),
		sources:   make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}
	if reader == nil {
		r, err := template.NewReader()
		if err != nil {
			return nil, err
		}
		reader = r
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("store: read %s: %w", path, err)
		}
		doc, err := template.NewDocument(template.SourceFromFS(path), data)
		if err != nil {
			return fmt.Errorf("store: %s: %w", path, err)
		}
		def, err := reader.LoadDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("store: %w", err)
		}

		if existing, ok := store.sources[def.Key]; ok {
			return fmt.Errorf("store: duplicate template key %q (files %s and %s)", def.Key, existing, path)
		}
		store.templates[def.Key] = def
		store.sources[def.Key] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Template returns the definition registered under key.
func (s *Store) Template(key string) (template.Definition, bool) {
	if s == nil {
		return template.Definition{}, false
	}
	def, ok := s.templates[key]
	return def, ok
}

// Source returns the path the template with key was loaded from.
func (s *Store) Source(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	path, ok := s.sources[key]
	return path, ok
}

// Keys returns the template keys in sorted order.
func (s *Store) Keys() []string {
	if s == nil || len(s.templates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of templates.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Empty reports whether the store holds any templates.
func (s *Store) Empty() bool {
	return s.Len() == 0
}

func isTemplateFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
