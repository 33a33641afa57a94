package index

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSubfolders(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"Hair", "top", ".git", "bottom"} {
		if err := os.Mkdir(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(root, "readme.txt"))

	got := Subfolders(root)
	want := map[string]bool{"hair": true, "top": true, "bottom": true}

	if len(got) != len(want) {
		t.Fatalf("Expected %d subfolders, got %d: %v", len(want), len(got), got)
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("Unexpected subfolder %q", name)
		}
	}
}

func TestSubfoldersMissingRoot(t *testing.T) {
	if got := Subfolders(filepath.Join(t.TempDir(), "nope")); len(got) != 0 {
		t.Errorf("Expected empty result for missing root, got %v", got)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hair", "hair-f-punk-01-v1-head.fbx"))
	writeFile(t, filepath.Join(root, "top", "outfit-f-casual-01-v1-top.FBX"))
	writeFile(t, filepath.Join(root, "top", "nested", "outfit-f-casual-02-v1-top.fbx"))
	writeFile(t, filepath.Join(root, "top", "texture.png"))
	writeFile(t, filepath.Join(root, ".hidden", "secret-f-x-01-v1-top.fbx"))
	writeFile(t, filepath.Join(root, "stray-f-x-01-v1-top.fbx"))

	candidates := Scan(root, "fbx")
	if len(candidates) != 4 {
		t.Fatalf("Expected 4 candidates, got %d: %v", len(candidates), candidates)
	}

	categories := make(map[string]string)
	for _, c := range candidates {
		categories[c.Name] = c.Category
	}

	tests := []struct {
		file     string
		category string
	}{
		{"hair-f-punk-01-v1-head.fbx", "hair"},
		{"outfit-f-casual-01-v1-top.FBX", "top"},
		{"outfit-f-casual-02-v1-top.fbx", "nested"},
		{"stray-f-x-01-v1-top.fbx", ""},
	}
	for _, tt := range tests {
		got, ok := categories[tt.file]
		if !ok {
			t.Errorf("File %s not found in scan results", tt.file)
			continue
		}
		if got != tt.category {
			t.Errorf("File %s: expected category %q, got %q", tt.file, tt.category, got)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	if got := Scan(filepath.Join(t.TempDir(), "nope"), "fbx"); len(got) != 0 {
		t.Errorf("Expected empty result for missing root, got %v", got)
	}
}
