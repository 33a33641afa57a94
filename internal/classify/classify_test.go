package classify

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/avatarset/internal/index"
	"github.com/user/avatarset/internal/scene"
)

// fakeImporter synthesizes import results per path, the way the host import
// subsystem would deliver them.
type fakeImporter struct {
	results map[string][]*scene.Object
	fail    map[string]bool
}

func (f *fakeImporter) Import(path string) ([]*scene.Object, []scene.Feedback, error) {
	if f.fail[path] {
		return nil, nil, errors.New("unsupported file version")
	}
	return f.results[path], nil, nil
}

type fakeMerger struct{ fail bool }

func (f *fakeMerger) Merge(objs []*scene.Object) *scene.Object {
	if f.fail || len(objs) == 0 {
		return nil
	}
	merged := objs[0]
	for _, obj := range objs[1:] {
		merged.Materials = append(merged.Materials, obj.Materials...)
	}
	return merged
}

func armatureEntity() *scene.Object {
	return &scene.Object{Name: "Root", Kind: scene.KindArmature}
}

func meshEntity(name string) *scene.Object {
	return &scene.Object{
		Name:        name,
		Kind:        scene.KindMesh,
		ArmatureMod: true,
		Materials:   []*scene.Material{{Name: "default"}},
	}
}

func newClassifier(imp scene.Importer) (*Classifier, *scene.Scene) {
	scn := scene.New()
	scn.AddCategories([]string{"hair", "top"})
	return &Classifier{Scene: scn, Importer: imp, Merger: &fakeMerger{}}, scn
}

func TestImportSortAccepted(t *testing.T) {
	imp := &fakeImporter{results: map[string][]*scene.Object{
		"/root/hair/hair-f-punk-01-v1-hair.fbx": {armatureEntity(), meshEntity("mesh.001")},
		"/root/top/outfit-f-casual-01-v1-top.fbx": {armatureEntity(), meshEntity("mesh.002")},
	}}
	c, scn := newClassifier(imp)

	assets, feedback := c.ImportSort([]index.Candidate{
		{Path: "/root/hair/hair-f-punk-01-v1-hair.fbx", Category: "hair", Name: "hair-f-punk-01-v1-hair.fbx"},
		{Path: "/root/top/outfit-f-casual-01-v1-top.fbx", Category: "top", Name: "outfit-f-casual-01-v1-top.fbx"},
	})

	for _, fb := range feedback {
		if fb.Level != scene.LevelInfo {
			t.Errorf("Unexpected diagnostic: %s %s", fb.Level, fb.Msg)
		}
	}

	// 2 accepted meshes + 1 mandatory armature.
	if len(assets) != 3 {
		t.Fatalf("Expected 3 assets, got %d", len(assets))
	}

	hair, _ := scn.Container("hair")
	if len(hair.Objects) != 1 {
		t.Fatalf("Expected 1 object in hair pool, got %d", len(hair.Objects))
	}
	mesh := hair.Objects[0]
	if mesh.Name != "hair-f-punk-01-v1-hair" {
		t.Errorf("Expected standardized name, got %q", mesh.Name)
	}
	if mesh.MeshName != "MESH_hair-f-punk-01-v1-hair" {
		t.Errorf("Expected MESH_ prefix on mesh data, got %q", mesh.MeshName)
	}
	if mesh.Materials[0].Name != "MAT_hair-f-punk-01-v1-hair" {
		t.Errorf("Expected MAT_ prefix on material, got %q", mesh.Materials[0].Name)
	}

	mandatory, _ := scn.Container(scene.ContainerMandatory)
	if len(mandatory.Objects) != 1 {
		t.Fatalf("Expected the armature in the mandatory pool, got %d objects", len(mandatory.Objects))
	}
	if mandatory.Objects[0].Name != "Armature-f" {
		t.Errorf("Expected armature named with skeleton suffix, got %q", mandatory.Objects[0].Name)
	}
	if mesh.Parent != mandatory.Objects[0] {
		t.Error("Expected mesh to be bound to the shared armature")
	}
}

func TestImportSortSharedArmature(t *testing.T) {
	first := armatureEntity()
	second := armatureEntity()
	imp := &fakeImporter{results: map[string][]*scene.Object{
		"/root/hair/hair-f-punk-01-v1-hair.fbx": {first, meshEntity("m1")},
		"/root/top/outfit-f-casual-01-v1-top.fbx": {second, meshEntity("m2")},
	}}
	c, scn := newClassifier(imp)

	c.ImportSort([]index.Candidate{
		{Path: "/root/hair/hair-f-punk-01-v1-hair.fbx", Category: "hair", Name: "hair-f-punk-01-v1-hair.fbx"},
		{Path: "/root/top/outfit-f-casual-01-v1-top.fbx", Category: "top", Name: "outfit-f-casual-01-v1-top.fbx"},
	})

	top, _ := scn.Container("top")
	if len(top.Objects) != 1 {
		t.Fatalf("Expected 1 object in top pool, got %d", len(top.Objects))
	}
	if top.Objects[0].Parent != first {
		t.Error("Expected second mesh re-parented to the first armature")
	}
	for _, obj := range scn.Objects() {
		if obj == second {
			t.Error("Redundant armature should be discarded, not tracked")
		}
	}
}

func TestImportSortFailures(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		category string
		entities []*scene.Object
		reason   string
	}{
		{
			name:     "skeleton tag mismatch",
			file:     "outfit-m-casual-01-v1-top.fbx",
			category: "top",
			entities: []*scene.Object{meshEntity("m")},
			reason:   "Armature mismatch",
		},
		{
			name:     "region tag mismatch",
			file:     "outfit-f-casual-01-v1-bottom.fbx",
			category: "top",
			entities: []*scene.Object{meshEntity("m")},
			reason:   "Region mismatch",
		},
		{
			name:     "static mesh cannot bind",
			file:     "outfit-f-casual-01-v1-top.fbx",
			category: "top",
			entities: []*scene.Object{{Name: "m", Kind: scene.KindMesh}},
			reason:   "Failed to set shared armature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/root/" + tt.category + "/" + tt.file
			imp := &fakeImporter{results: map[string][]*scene.Object{
				"/root/hair/hair-f-punk-01-v1-hair.fbx": {armatureEntity(), meshEntity("base")},
				path: tt.entities,
			}}
			c, scn := newClassifier(imp)

			assets, feedback := c.ImportSort([]index.Candidate{
				{Path: "/root/hair/hair-f-punk-01-v1-hair.fbx", Category: "hair", Name: "hair-f-punk-01-v1-hair.fbx"},
				{Path: path, Category: tt.category, Name: tt.file},
			})

			var failed *Asset
			for i := range assets {
				if assets[i].Disposition == Failed {
					failed = &assets[i]
				}
			}
			if failed == nil {
				t.Fatal("Expected a failed asset")
			}
			if !strings.Contains(failed.Reason, tt.reason) {
				t.Errorf("Expected reason containing %q, got %q", tt.reason, failed.Reason)
			}

			bucket, _ := scn.Container(scene.ContainerFailed)
			if len(bucket.Objects) != 1 {
				t.Errorf("Expected 1 object in failed bucket, got %d", len(bucket.Objects))
			}

			found := false
			for _, fb := range feedback {
				if fb.Level == scene.LevelWarning && strings.Contains(fb.Msg, tt.reason) {
					found = true
				}
			}
			if !found {
				t.Error("Expected a warning diagnostic for the failure")
			}
		})
	}
}

func TestImportSortHardFailureContinues(t *testing.T) {
	imp := &fakeImporter{
		results: map[string][]*scene.Object{
			"/root/top/outfit-f-casual-01-v1-top.fbx": {armatureEntity(), meshEntity("m")},
		},
		fail: map[string]bool{"/root/hair/broken.fbx": true},
	}
	c, scn := newClassifier(imp)

	assets, feedback := c.ImportSort([]index.Candidate{
		{Path: "/root/hair/broken.fbx", Category: "hair", Name: "broken.fbx"},
		{Path: "/root/top/outfit-f-casual-01-v1-top.fbx", Category: "top", Name: "outfit-f-casual-01-v1-top.fbx"},
	})

	hadError := false
	for _, fb := range feedback {
		if fb.Level == scene.LevelError && strings.Contains(fb.Msg, "broken.fbx") {
			hadError = true
		}
	}
	if !hadError {
		t.Error("Expected an error diagnostic for the unimportable file")
	}

	top, _ := scn.Container("top")
	if len(top.Objects) != 1 {
		t.Errorf("Batch should continue past a hard import failure, top pool has %d objects", len(top.Objects))
	}
	// The broken file produces no asset record at all.
	for _, a := range assets {
		if a.SrcFile == "/root/hair/broken.fbx" {
			t.Error("Hard import failures must not produce assets")
		}
	}
}

func TestImportSortZeroMeshesWarns(t *testing.T) {
	imp := &fakeImporter{results: map[string][]*scene.Object{
		"/root/hair/hair-f-punk-01-v1-hair.fbx": {armatureEntity()},
	}}
	c, scn := newClassifier(imp)

	assets, feedback := c.ImportSort([]index.Candidate{
		{Path: "/root/hair/hair-f-punk-01-v1-hair.fbx", Category: "hair", Name: "hair-f-punk-01-v1-hair.fbx"},
	})

	warned := false
	for _, fb := range feedback {
		if fb.Level == scene.LevelWarning && strings.Contains(fb.Msg, "no meshes") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected warning for a file without meshes")
	}

	// The lone armature still becomes the canonical skeleton.
	mandatory, _ := scn.Container(scene.ContainerMandatory)
	if len(mandatory.Objects) != 1 {
		t.Errorf("Expected armature in mandatory pool, got %d objects", len(mandatory.Objects))
	}
	if len(assets) != 1 || assets[0].Disposition != Mandatory {
		t.Errorf("Expected exactly the mandatory asset, got %v", assets)
	}
}

func TestImportSortMergesMultiPartMeshes(t *testing.T) {
	imp := &fakeImporter{results: map[string][]*scene.Object{
		"/root/top/outfit-f-casual-01-v1-top.fbx": {
			armatureEntity(), meshEntity("part1"), meshEntity("part2"),
		},
	}}
	c, scn := newClassifier(imp)

	assets, _ := c.ImportSort([]index.Candidate{
		{Path: "/root/top/outfit-f-casual-01-v1-top.fbx", Category: "top", Name: "outfit-f-casual-01-v1-top.fbx"},
	})

	top, _ := scn.Container("top")
	if len(top.Objects) != 1 {
		t.Fatalf("Expected merged mesh in top pool, got %d objects", len(top.Objects))
	}
	if len(top.Objects[0].Materials) != 2 {
		t.Errorf("Expected merged mesh to keep both materials, got %d", len(top.Objects[0].Materials))
	}

	var accepted int
	for _, a := range assets {
		if a.Disposition == Accepted {
			accepted++
		}
	}
	if accepted != 1 {
		t.Errorf("Expected 1 accepted asset, got %d", accepted)
	}
}

func TestImportSortMergeFailure(t *testing.T) {
	imp := &fakeImporter{results: map[string][]*scene.Object{
		"/root/top/outfit-f-casual-01-v1-top.fbx": {
			armatureEntity(), meshEntity("part1"), meshEntity("part2"),
		},
	}}
	c, scn := newClassifier(imp)
	c.Merger = &fakeMerger{fail: true}

	assets, _ := c.ImportSort([]index.Candidate{
		{Path: "/root/top/outfit-f-casual-01-v1-top.fbx", Category: "top", Name: "outfit-f-casual-01-v1-top.fbx"},
	})

	bucket, _ := scn.Container(scene.ContainerFailed)
	if len(bucket.Objects) != 2 {
		t.Errorf("Expected both parts in failed bucket, got %d", len(bucket.Objects))
	}
	var failed int
	for _, a := range assets {
		if a.Disposition == Failed && strings.Contains(a.Reason, "merge") {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Expected 1 failed asset with merge reason, got %d", failed)
	}
}
