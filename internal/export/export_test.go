package export

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/avatarset/internal/scene"
)

// recordingExporter captures each export call together with the selection it
// saw at that moment.
type recordingExporter struct {
	scn        *scene.Scene
	paths      []string
	selections [][]*scene.Object
	failOn     string
}

func (r *recordingExporter) Export(path string) error {
	if r.failOn != "" && strings.Contains(path, r.failOn) {
		return errors.New("disk full")
	}
	r.paths = append(r.paths, path)
	r.selections = append(r.selections, r.scn.Selected())
	return nil
}

func setup(t *testing.T, names ...string) (*scene.Scene, map[string]*scene.Object) {
	t.Helper()
	scn := scene.New()
	objs := make(map[string]*scene.Object)
	for _, name := range names {
		obj := &scene.Object{Name: name, Kind: scene.KindMesh, Hidden: true}
		objs[name] = obj
		scn.Track(obj)
	}
	return scn, objs
}

func TestExportAll(t *testing.T) {
	scn, objs := setup(t, "a", "b", "c")
	if _, err := scn.NewExportSet("set-f-0011223344556677", []*scene.Object{objs["a"], objs["b"]}); err != nil {
		t.Fatal(err)
	}
	if _, err := scn.NewExportSet("set-f-8899aabbccddeeff", []*scene.Object{objs["c"]}); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	exp := &recordingExporter{scn: scn}
	d := &Driver{Scene: scn, Exporter: exp}

	feedback, err := d.ExportAll(dir, "glb")
	if err != nil {
		t.Fatal(err)
	}

	if len(exp.paths) != 2 {
		t.Fatalf("Expected 2 exports, got %d", len(exp.paths))
	}
	want := filepath.Join(dir, "set-f-0011223344556677.glb")
	if exp.paths[0] != want {
		t.Errorf("Expected path %q, got %q", want, exp.paths[0])
	}

	// First export must see exactly {a, b} selected, and not hidden.
	if len(exp.selections[0]) != 2 {
		t.Fatalf("Expected 2 selected objects, got %d", len(exp.selections[0]))
	}
	for _, obj := range exp.selections[0] {
		if obj.Hidden {
			t.Errorf("Selected object %q should not be hidden", obj.Name)
		}
		if obj.Name == "c" {
			t.Error("Selection leaked an object from another set")
		}
	}

	infos := 0
	for _, fb := range feedback {
		if fb.Level == scene.LevelInfo {
			infos++
		}
	}
	if infos != 2 {
		t.Errorf("Expected 2 info diagnostics, got %d", infos)
	}

	if sel := scn.Selected(); len(sel) != 0 {
		t.Errorf("Expected selection cleared after the batch, got %d objects", len(sel))
	}
}

func TestExportAllSanitizesNames(t *testing.T) {
	scn, objs := setup(t, "a")
	if _, err := scn.NewExportSet("set-f.001-aabb", []*scene.Object{objs["a"]}); err != nil {
		t.Fatal(err)
	}

	exp := &recordingExporter{scn: scn}
	d := &Driver{Scene: scn, Exporter: exp}
	if _, err := d.ExportAll(t.TempDir(), "glb"); err != nil {
		t.Fatal(err)
	}

	if base := filepath.Base(exp.paths[0]); base != "set-f_001-aabb.glb" {
		t.Errorf("Expected dots replaced in file name, got %q", base)
	}
}

func TestExportAllContinuesPastFailures(t *testing.T) {
	scn, objs := setup(t, "a", "b")
	if _, err := scn.NewExportSet("set-f-aaaaaaaaaaaaaaaa", []*scene.Object{objs["a"]}); err != nil {
		t.Fatal(err)
	}
	if _, err := scn.NewExportSet("set-f-bbbbbbbbbbbbbbbb", []*scene.Object{objs["b"]}); err != nil {
		t.Fatal(err)
	}

	exp := &recordingExporter{scn: scn, failOn: "aaaaaaaaaaaaaaaa"}
	d := &Driver{Scene: scn, Exporter: exp}

	feedback, err := d.ExportAll(t.TempDir(), "glb")
	if err != nil {
		t.Fatal(err)
	}

	if len(exp.paths) != 1 {
		t.Fatalf("Expected the second set exported despite the first failing, got %d exports", len(exp.paths))
	}
	warned := false
	for _, fb := range feedback {
		if fb.Level == scene.LevelWarning && strings.Contains(fb.Msg, "Failed to export") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning for the failed item")
	}
}

func TestExportAllMissingDirectory(t *testing.T) {
	scn, _ := setup(t, "a")
	d := &Driver{Scene: scn, Exporter: &recordingExporter{scn: scn}}

	if _, err := d.ExportAll(filepath.Join(t.TempDir(), "nope"), "glb"); err == nil {
		t.Error("Expected an error for a missing export directory")
	}
}
