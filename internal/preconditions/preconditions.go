package preconditions

import (
	"fmt"
	"os"
	"strings"
)

// Check verifies all preconditions for a run are met
func Check(importRoot string) error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"import root", func() error { return checkImportRoot(importRoot) }},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}
	}

	return nil
}

func checkImportRoot(importRoot string) error {
	info, err := os.Stat(importRoot)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", importRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", importRoot)
	}

	entries, err := os.ReadDir(importRoot)
	if err != nil {
		return fmt.Errorf("cannot list %s: %w", importRoot, err)
	}
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
	}
	return fmt.Errorf("no category folders under %s", importRoot)
}

// ValidateFiles checks if component files exist and are readable
func ValidateFiles(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot access file %s: %w", path, err)
		}

		if info.IsDir() {
			return fmt.Errorf("%s is a directory, not a file", path)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("cannot read file %s: %w", path, err)
		}
		file.Close()
	}

	return nil
}
