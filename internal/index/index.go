// Package index scans the import root for component categories and candidate
// files. Both queries are read-only; a missing or unreadable root yields an
// empty result and error signaling stays with the caller.
package index

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Candidate is one discovered component file. Category is the lowercased name
// of the file's immediate parent folder; files sitting directly in the root
// carry an empty category and are rejected later by the classifier.
type Candidate struct {
	Path     string
	Category string
	Name     string
}

// Subfolders returns the lowercased names of first-level subfolders of root.
// Hidden folders (dot-prefixed) are skipped.
func Subfolders(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, strings.ToLower(entry.Name()))
	}
	return names
}

// Scan searches root recursively for files with the given extension
// (case-insensitive, without the leading dot). Hidden directories are not
// descended into.
func Scan(root, ext string) []Candidate {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	suffix := "." + strings.ToLower(ext)

	var candidates []Candidate
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil // Skip unreadable subtrees, keep scanning.
		}
		if d.IsDir() {
			if path != absRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), suffix) {
			return nil
		}
		category := ""
		if parent := filepath.Dir(path); parent != absRoot {
			category = strings.ToLower(filepath.Base(parent))
		}
		candidates = append(candidates, Candidate{
			Path:     path,
			Category: category,
			Name:     d.Name(),
		})
		return nil
	})
	if err != nil {
		return nil
	}
	return candidates
}
