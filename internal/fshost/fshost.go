// Package fshost backs the scene collaborator contracts with the local
// filesystem. Component files are not parsed for geometry; the tag grammar of
// the file name describes the content, sibling texture images become material
// slots, and exports package each combination as a zip bundle with a YAML
// manifest.
package fshost

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/tags"
)

var textureExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tga":  true,
}

// Importer synthesizes scene entities from component files on disk.
type Importer struct{}

// Import yields one armature and one mesh entity per component file. Texture
// images sitting next to the file with the same type, skeleton, theme,
// variant, mesh and region tags become the mesh material's image slots, one
// per map tag.
func (Importer) Import(path string) ([]*scene.Object, []scene.Feedback, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read component file: %w", err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("not a component file: %s", path)
	}

	base := filepath.Base(path)
	stem, _, _ := strings.Cut(base, ".")
	rec := tags.Parse(base, false)

	images, err := siblingTextures(path, rec)
	if err != nil {
		return nil, nil, err
	}

	var feedback []scene.Feedback
	if len(images) == 0 {
		feedback = append(feedback, scene.Feedback{
			Level: scene.LevelWarning,
			Msg:   fmt.Sprintf("No textures found for %s.", base),
		})
	}

	armature := &scene.Object{
		Name:    "Armature",
		Kind:    scene.KindArmature,
		SrcFile: path,
	}
	mesh := &scene.Object{
		Name:        stem,
		Kind:        scene.KindMesh,
		MeshName:    stem,
		Materials:   []*scene.Material{{Name: stem, Images: images}},
		ArmatureMod: true,
		SrcFile:     path,
	}
	return []*scene.Object{armature, mesh}, feedback, nil
}

func siblingTextures(path string, rec tags.Record) ([]*scene.Image, error) {
	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", dir, err)
	}

	var images []*scene.Image
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !textureExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		imgRec := tags.Parse(name, true)
		if !sameComponent(rec, imgRec) {
			continue
		}
		images = append(images, &scene.Image{
			Name: name,
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

func sameComponent(a, b tags.Record) bool {
	for _, field := range []tags.Field{
		tags.Type, tags.Skeleton, tags.Theme, tags.Variant, tags.Mesh, tags.Region,
	} {
		if a[field] != b[field] {
			return false
		}
	}
	return true
}

// Merger folds multiple mesh parts from one file into a single mesh. The
// first part survives and absorbs the material slots of the rest.
type Merger struct{}

func (Merger) Merge(objs []*scene.Object) *scene.Object {
	if len(objs) == 0 {
		return nil
	}
	merged := objs[0]
	for _, obj := range objs[1:] {
		merged.Materials = append(merged.Materials, obj.Materials...)
	}
	return merged
}

// Exporter writes the currently selected objects as a zip bundle. The bundle
// carries a manifest.yaml describing the set plus the source file and texture
// images of every member, deduplicated by archive path.
type Exporter struct {
	Scene *scene.Scene
}

type manifest struct {
	Set     string           `yaml:"set"`
	Objects []manifestObject `yaml:"objects"`
}

type manifestObject struct {
	Name      string             `yaml:"name"`
	Mesh      string             `yaml:"mesh,omitempty"`
	Source    string             `yaml:"source,omitempty"`
	Materials []manifestMaterial `yaml:"materials,omitempty"`
}

type manifestMaterial struct {
	Name   string   `yaml:"name"`
	Images []string `yaml:"images,omitempty"`
}

// Export packages the current selection at targetPath.
func (e *Exporter) Export(targetPath string) error {
	selected := e.Scene.Selected()
	if len(selected) == 0 {
		return fmt.Errorf("nothing selected to export")
	}

	outFile, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	outZip := zip.NewWriter(outFile)
	defer outZip.Close()

	setName := filepath.Base(targetPath)
	setName = strings.TrimSuffix(setName, filepath.Ext(setName))

	m := manifest{Set: setName}
	written := map[string]bool{}

	for _, obj := range selected {
		entry := manifestObject{Name: obj.Name}
		if obj.Kind == scene.KindMesh {
			entry.Mesh = obj.MeshName
		}

		if obj.SrcFile != "" {
			archivePath := "assets/" + filepath.Base(obj.SrcFile)
			if err := addFile(outZip, written, archivePath, obj.SrcFile); err != nil {
				return err
			}
			entry.Source = archivePath
		}

		for _, mat := range obj.Materials {
			matEntry := manifestMaterial{Name: mat.Name}
			for _, img := range mat.Images {
				archivePath := "textures/" + img.Name
				if err := addFile(outZip, written, archivePath, img.Path); err != nil {
					return err
				}
				matEntry.Images = append(matEntry.Images, archivePath)
			}
			entry.Materials = append(entry.Materials, matEntry)
		}
		m.Objects = append(m.Objects, entry)
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("error marshaling manifest: %w", err)
	}
	w, err := outZip.Create("manifest.yaml")
	if err != nil {
		return fmt.Errorf("error creating manifest entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}

	return nil
}

func addFile(outZip *zip.Writer, written map[string]bool, archivePath, srcPath string) error {
	if written[archivePath] {
		return nil
	}
	written[archivePath] = true

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("error opening source file: %w", err)
	}
	defer src.Close()

	dst, err := outZip.Create(archivePath)
	if err != nil {
		return fmt.Errorf("error creating ZIP entry: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("error copying file: %w", err)
	}
	return nil
}
