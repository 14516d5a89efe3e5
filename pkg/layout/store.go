package layout

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store keeps hand-authored layouts keyed by collection slug. Treat it as
// immutable after construction; it is then safe for concurrent readers.
type Store struct {
	layouts map[string]FormLayout
}

type documentFile struct {
	Collections map[string]FormLayout `json:"collections" yaml:"collections"`
}

// LoadFS walks a filesystem and parses every JSON/YAML layout document it
// finds. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{layouts: make(map[string]FormLayout)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isLayoutFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("layout: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for slug, form := range doc.Collections {
			key := strings.TrimSpace(slug)
			if key == "" {
				return fmt.Errorf("layout: file %s defines an empty collection slug", path)
			}
			if _, exists := store.layouts[key]; exists {
				return fmt.Errorf("layout: duplicate layout for collection %q (file %s)", key, path)
			}
			if err := validateLayout(form, key, path); err != nil {
				return err
			}
			store.layouts[key] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Layout returns the hand-authored layout for a collection, if any.
func (s *Store) Layout(collection string) (FormLayout, bool) {
	if s == nil {
		return FormLayout{}, false
	}
	form, ok := s.layouts[collection]
	return form, ok
}

// Empty reports whether the store holds any layouts.
func (s *Store) Empty() bool {
	return s == nil || len(s.layouts) == 0
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("layout: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("layout: parse %s: invalid JSON or YAML", source)
}

func validateLayout(form FormLayout, slug, source string) error {
	if form.Columns != 1 && form.Columns != 2 {
		return fmt.Errorf("layout: collection %q (file %s): columns must be 1 or 2", slug, source)
	}
	if form.Columns == 1 && len(form.Right) > 0 {
		return fmt.Errorf("layout: collection %q (file %s): right column requires columns: 2", slug, source)
	}
	seen := make(map[string]struct{})
	for _, section := range append(append([]Section{}, form.Left...), form.Right...) {
		if strings.TrimSpace(section.Title) == "" {
			return fmt.Errorf("layout: collection %q (file %s): section without title", slug, source)
		}
		for _, name := range section.Fields {
			if _, dup := seen[name]; dup {
				return fmt.Errorf("layout: collection %q (file %s): field %q appears twice", slug, source, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

func isLayoutFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
