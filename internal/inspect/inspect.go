package inspect

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/avatarset/internal/ui"
)

// Inspector provides functionality to inspect exported avatar bundles
type Inspector struct{}

// NewInspector creates a new Inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

type bundleManifest struct {
	Set     string         `yaml:"set"`
	Objects []bundleObject `yaml:"objects"`
}

type bundleObject struct {
	Name      string           `yaml:"name"`
	Mesh      string           `yaml:"mesh"`
	Source    string           `yaml:"source"`
	Materials []bundleMaterial `yaml:"materials"`
}

type bundleMaterial struct {
	Name   string   `yaml:"name"`
	Images []string `yaml:"images"`
}

// Inspect reads and displays the contents of an exported bundle
func (i *Inspector) Inspect(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file not found: %s", filename)
	}

	ui.PrintHeader(fmt.Sprintf("Inspecting: %s", filename))

	manifest, entries, err := i.readBundle(filename)
	if err != nil {
		return fmt.Errorf("error reading bundle: %w", err)
	}

	ui.PrintStep(fmt.Sprintf("Set: %s", manifest.Set))
	ui.PrintStep(fmt.Sprintf("Members: %d", len(manifest.Objects)))

	ui.PrintHeader("Members:")
	for _, obj := range manifest.Objects {
		i.printMember(obj)
	}

	var extra []string
	referenced := referencedEntries(manifest)
	for _, name := range entries {
		if name != "manifest.yaml" && !referenced[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		ui.PrintHeader("Unreferenced entries:")
		for _, name := range extra {
			ui.PrintItem(name)
		}
	}

	return nil
}

// readBundle reads a bundle zip and returns its manifest and entry names
func (i *Inspector) readBundle(filename string) (*bundleManifest, []string, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer zr.Close()

	var manifestFile *zip.File
	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)
		if f.Name == "manifest.yaml" {
			manifestFile = f
		}
	}
	sort.Strings(entries)

	if manifestFile == nil {
		return nil, nil, fmt.Errorf("manifest.yaml not found in archive")
	}

	rc, err := manifestFile.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("error opening manifest: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading manifest: %w", err)
	}

	var manifest bundleManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, nil, fmt.Errorf("error parsing manifest YAML: %w", err)
	}

	return &manifest, entries, nil
}

// printMember prints one member with its mesh, source and material slots
func (i *Inspector) printMember(obj bundleObject) {
	kind := "armature"
	if obj.Mesh != "" {
		kind = "mesh"
	}
	ui.PrintStep(fmt.Sprintf("• %s [%s]", obj.Name, kind))
	if obj.Source != "" {
		ui.PrintStep(fmt.Sprintf("  source: %s", obj.Source))
	}
	for _, mat := range obj.Materials {
		images := ""
		if len(mat.Images) > 0 {
			images = " " + strings.Join(mat.Images, ", ")
		}
		ui.PrintStep(fmt.Sprintf("  - %s%s", mat.Name, images))
	}
}

func referencedEntries(manifest *bundleManifest) map[string]bool {
	referenced := map[string]bool{}
	for _, obj := range manifest.Objects {
		if obj.Source != "" {
			referenced[obj.Source] = true
		}
		for _, mat := range obj.Materials {
			for _, img := range mat.Images {
				referenced[img] = true
			}
		}
	}
	return referenced
}
