// Package classify turns import candidates into categorized scene assets.
// Each file is imported through the external collaborator, tagged from its
// name, validated against the batch's shared skeleton, and sorted into its
// category pool or the failed bucket.
package classify

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/avatarset/internal/index"
	"github.com/user/avatarset/internal/scene"
	"github.com/user/avatarset/internal/tags"
)

// Disposition is the terminal state of one classified asset.
type Disposition int

const (
	Accepted Disposition = iota
	Failed
	Mandatory
)

// String returns the disposition's display name.
func (d Disposition) String() string {
	switch d {
	case Failed:
		return "failed"
	case Mandatory:
		return "mandatory"
	default:
		return "accepted"
	}
}

// Asset is the in-memory record of one classified import result.
type Asset struct {
	Object      *scene.Object
	Tags        tags.Record
	Category    string
	Disposition Disposition
	Reason      string // Set for failed assets, distinct per condition.
	SrcFile     string
}

// Classifier imports and sorts a batch of candidates. All assets of one
// batch share a single armature: the first skeleton that comes in wins and
// later ones are discarded.
type Classifier struct {
	Scene    *scene.Scene
	Importer scene.Importer
	Merger   scene.Merger
}

// ImportSort runs the batch. It returns the classified assets along with the
// ordered diagnostics; per-file failures never abort the batch.
func (c *Classifier) ImportSort(candidates []index.Candidate) ([]Asset, []scene.Feedback) {
	var assets []Asset
	var feedback []scene.Feedback

	// Explicit accumulator for the batch-wide canonical skeleton.
	var armature *scene.Object
	var armSuffix string

	for _, candidate := range candidates {
		objs, msgs, err := c.Importer.Import(candidate.Path)
		feedback = append(feedback, msgs...)
		if err != nil {
			feedback = append(feedback, scene.Feedback{
				Level: scene.LevelError,
				Msg:   fmt.Sprintf("File %s could not be imported: %v", candidate.Path, err),
			})
			continue
		}

		fileName := stem(candidate.Name)
		meshes, incoming := split(objs)

		// The first armature that comes in serves as base for all further
		// imported assets; redundant ones are dropped.
		if incoming != nil {
			if armature == nil {
				armature = incoming
				armSuffix = tags.SkeletonType(fileName)
				armature.Name = strings.TrimSuffix("Armature-"+armSuffix, "-")
				c.Scene.Track(armature)
			}
		}

		if len(meshes) == 0 {
			feedback = append(feedback, scene.Feedback{
				Level: scene.LevelWarning,
				Msg:   fmt.Sprintf("File %s yielded no meshes.", candidate.Path),
			})
			continue
		}

		mesh := meshes[0]
		if len(meshes) > 1 {
			if mesh = c.Merger.Merge(meshes); mesh == nil {
				asset := Asset{
					Object:      meshes[0],
					Category:    candidate.Category,
					Disposition: Failed,
					Reason:      fmt.Sprintf("Failed to merge mesh parts of %s.", fileName),
					SrcFile:     candidate.Path,
				}
				c.fail(&asset, &feedback, meshes...)
				assets = append(assets, asset)
				continue
			}
		}

		asset := c.classifyMesh(mesh, fileName, candidate, armature, armSuffix)
		if asset.Disposition == Failed {
			c.fail(&asset, &feedback, mesh)
		} else {
			c.accept(&asset, &feedback)
		}
		assets = append(assets, asset)
	}

	if armature != nil {
		if mandatory, ok := c.Scene.Container(scene.ContainerMandatory); ok {
			mandatory.Link(armature)
			assets = append(assets, Asset{
				Object:      armature,
				Tags:        tags.Parse(armature.Name, false),
				Category:    scene.ContainerMandatory,
				Disposition: Mandatory,
			})
		}
	}
	c.Scene.DeselectAll()

	return assets, feedback
}

// classifyMesh names the mesh from its file tags and validates it against
// the shared skeleton and its source folder. The three checks run in order;
// the first to fail sets the asset's reason.
func (c *Classifier) classifyMesh(mesh *scene.Object, fileName string, candidate index.Candidate, armature *scene.Object, armSuffix string) Asset {
	mesh.SrcFile = candidate.Path

	rec := tags.Parse(fileName, false)
	if rec[tags.Region] == "undefined" {
		rec[tags.Region] = candidate.Category
	}

	// Imported meshes rarely have meaningful names. Standardize everything
	// with the re-serialized tag record.
	mesh.Name = rec.Name()
	mesh.MeshName = "MESH_" + mesh.Name
	for i, mat := range mesh.Materials {
		mat.Name = "MAT_" + mesh.Name
		if i > 0 {
			mat.Name = fmt.Sprintf("%s.%03d", mat.Name, i)
		}
	}
	c.Scene.Track(mesh)

	asset := Asset{
		Object:   mesh,
		Tags:     rec,
		Category: candidate.Category,
		SrcFile:  candidate.Path,
	}

	switch {
	case !mesh.Bind(armature):
		asset.Disposition = Failed
		asset.Reason = fmt.Sprintf("Failed to set shared armature for %s.", fileName)
	case rec[tags.Skeleton] != armSuffix:
		asset.Disposition = Failed
		asset.Reason = fmt.Sprintf("Armature mismatch detected for %s.", fileName)
	case rec[tags.Region] != candidate.Category:
		asset.Disposition = Failed
		asset.Reason = fmt.Sprintf("Region mismatch detected for %s.", fileName)
	default:
		asset.Disposition = Accepted
	}
	return asset
}

func (c *Classifier) fail(asset *Asset, feedback *[]scene.Feedback, objs ...*scene.Object) {
	*feedback = append(*feedback, scene.Feedback{Level: scene.LevelWarning, Msg: asset.Reason})
	if failed, ok := c.Scene.Container(scene.ContainerFailed); ok {
		failed.Link(objs...)
	}
}

func (c *Classifier) accept(asset *Asset, feedback *[]scene.Feedback) {
	pool, ok := c.Scene.Container(asset.Category)
	if !ok {
		// No pool for this category means the file sat outside the scanned
		// category folders. Route it to the failed bucket.
		asset.Disposition = Failed
		asset.Reason = fmt.Sprintf("No category pool for %s.", asset.Object.Name)
		c.fail(asset, feedback, asset.Object)
		return
	}
	pool.Link(asset.Object)
}

// split separates mesh entities from the first armature entity of an import
// result.
func split(objs []*scene.Object) (meshes []*scene.Object, armature *scene.Object) {
	for _, obj := range objs {
		switch obj.Kind {
		case scene.KindArmature:
			if armature == nil {
				armature = obj
			}
		case scene.KindMesh:
			meshes = append(meshes, obj)
		}
	}
	return meshes, armature
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
