// Package variants discovers alternate texture sets for accepted assets and
// expands each one into an additional asset copy with substituted materials.
//
// Discovery is name-driven: the representative image of a material is parsed
// as a 7-tag image name and its directory is searched for siblings that match
// on everything but the variant and map tags.
package variants

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/user/avatarset/internal/classify"
	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/tags"
)

// dirCacheSize bounds the directory-listing cache. Texture folders are shared
// by many materials, so a small cache covers a whole import batch.
const dirCacheSize = 64

// Expander finds texture variants on disk and produces asset copies.
type Expander struct {
	Scene *scene.Scene

	dirCache *lru.Cache[string, []string]
	listDir  func(dir string) []string
}

// NewExpander creates an expander that links the produced copies into the
// scene's category pools.
func NewExpander(scn *scene.Scene) *Expander {
	cache, err := lru.New[string, []string](dirCacheSize)
	if err != nil {
		panic(err) // Only reachable with a non-positive size.
	}
	e := &Expander{Scene: scn, dirCache: cache}
	e.listDir = e.readDir
	return e
}

// Expand produces zero or more additional assets for one accepted asset, one
// per texture variant discovered next to the asset's images. Assets without
// image references, or whose images have no siblings on disk, expand to
// nothing.
func (e *Expander) Expand(asset classify.Asset) []classify.Asset {
	if asset.Disposition != classify.Accepted {
		return nil
	}

	// slot index -> variant -> substituted material
	newMaterials := make(map[string]map[int]*scene.Material)
	for slot, material := range asset.Object.Materials {
		for variant, group := range e.siblingGroups(material) {
			substituted := substitute(material, group)
			if substituted == nil {
				continue // No image was actually replaced.
			}
			substituted.Name = tags.ReplaceVariant(material.Name, variant)
			if newMaterials[variant] == nil {
				newMaterials[variant] = make(map[int]*scene.Material)
			}
			newMaterials[variant][slot] = substituted
		}
	}

	variantKeys := make([]string, 0, len(newMaterials))
	for variant := range newMaterials {
		variantKeys = append(variantKeys, variant)
	}
	sort.Strings(variantKeys)

	var expanded []classify.Asset
	for _, variant := range variantKeys {
		dup := asset.Object.Copy()
		dup.Name = tags.ReplaceVariant(asset.Object.Name, variant)
		dup.MeshName = "MESH_" + dup.Name
		// Slots without a substituted material keep their original one.
		for slot, material := range newMaterials[variant] {
			dup.Materials[slot] = material
		}

		e.Scene.Track(dup)
		if pool, ok := e.Scene.Container(asset.Category); ok {
			pool.Link(dup)
		}

		expanded = append(expanded, classify.Asset{
			Object:      dup,
			Tags:        tags.Parse(dup.Name, false),
			Category:    asset.Category,
			Disposition: classify.Accepted,
			SrcFile:     asset.SrcFile,
		})
	}
	return expanded
}

// siblingGroups finds image files next to the material's representative image
// that differ only in variant and map tags, grouped by variant. The
// representative's own variant is excluded.
func (e *Expander) siblingGroups(material *scene.Material) map[string][]string {
	if len(material.Images) == 0 {
		return nil
	}
	// Any image of the material works as the naming representative.
	rep := material.Images[0]
	repName := filepath.Base(rep.Path)
	rec := tags.Parse(repName, true)

	pattern := strings.Join([]string{
		rec[tags.Type], rec[tags.Skeleton], rec[tags.Theme], "??",
		rec[tags.Mesh], rec[tags.Region], "?.*",
	}, tags.Sep)

	dir := filepath.Dir(rep.Path)
	groups := make(map[string][]string)
	for _, name := range e.cachedDir(dir) {
		ok, err := path.Match(pattern, strings.ToLower(name))
		if err != nil || !ok {
			continue
		}
		variant := tags.Parse(name, true)[tags.Variant]
		groups[variant] = append(groups[variant], filepath.Join(dir, name))
	}
	delete(groups, rec[tags.Variant])
	if len(groups) == 0 {
		return nil
	}
	return groups
}

// substitute duplicates the material, swapping every image whose map tag has
// a counterpart in the variant group. Returns nil when nothing was replaced.
func substitute(material *scene.Material, group []string) *scene.Material {
	byMap := make(map[string]string, len(group))
	for _, p := range group {
		byMap[tags.Parse(filepath.Base(p), true)[tags.Map]] = p
	}

	dup := material.Copy()
	replaced := 0
	for _, img := range dup.Images {
		rec := tags.Parse(filepath.Base(img.Path), true)
		p, ok := byMap[rec[tags.Map]]
		if !ok {
			continue
		}
		img.Path = p
		img.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		replaced++
	}
	if replaced == 0 {
		return nil
	}
	return dup
}

func (e *Expander) cachedDir(dir string) []string {
	if names, ok := e.dirCache.Get(dir); ok {
		return names
	}
	names := e.listDir(dir)
	e.dirCache.Add(dir, names)
	return names
}

func (e *Expander) readDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}
