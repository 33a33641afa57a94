// Package export walks the export sets of a scene and drives the external
// packaged-asset exporter over them, one file per combination.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/avatarset/internal/scene"
)

// Driver exports every child container of the scene's export container.
type Driver struct {
	Scene    *scene.Scene
	Exporter scene.Exporter
}

// ExportAll exports one file per export set into dir, named after the set
// with dots replaced (a dot inside the name would read as a bogus extension)
// and the given extension appended. A failed item is recorded as a warning
// and the batch moves on; only missing structural prerequisites abort.
func (d *Driver) ExportAll(dir, ext string) ([]scene.Feedback, error) {
	exportRoot, ok := d.Scene.Container(scene.ContainerExport)
	if !ok {
		return nil, fmt.Errorf("%w: missing export container", scene.ErrNotInitialized)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("export destination is not a directory: %s", dir)
	}

	var feedback []scene.Feedback
	for _, set := range exportRoot.Children {
		// The exporter works on the selection, so make this set's assets the
		// exclusive working set.
		d.Scene.SelectOnly(set.Objects)

		target := filepath.Join(dir, sanitize(set.Name)+"."+ext)
		if err := d.Exporter.Export(target); err != nil {
			feedback = append(feedback, scene.Feedback{
				Level: scene.LevelWarning,
				Msg:   fmt.Sprintf("Failed to export file %s: %v", target, err),
			})
			continue
		}
		feedback = append(feedback, scene.Feedback{
			Level: scene.LevelInfo,
			Msg:   fmt.Sprintf("Exported combination to %s.", target),
		})
	}

	d.Scene.DeselectAll()
	return feedback, nil
}

func sanitize(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}
