package scene

import "errors"

// ErrNotInitialized signals a missing structural prerequisite, e.g. a
// reserved container that should have been created during scene setup.
var ErrNotInitialized = errors.New("scene is not initialized properly")

// Level grades a feedback message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the level's display name.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Feedback carries one diagnostic from the pipeline to the caller. Per-item
// failures are reported this way instead of aborting the batch.
type Feedback struct {
	Level Level
	Msg   string
}

// Importer is the external mesh-import subsystem. On success it returns the
// imported root entities (armature and/or meshes) plus any non-fatal
// diagnostics. A non-nil error is a hard failure, distinct from an import
// that yields zero objects.
type Importer interface {
	Import(path string) ([]*Object, []Feedback, error)
}

// Merger is the external mesh-merge subsystem. It only operates on mesh
// entities and returns nil when the merge cannot proceed.
type Merger interface {
	Merge(objs []*Object) *Object
}

// Exporter is the external packaged-asset export subsystem. It operates on
// the scene's pre-selected working set, not on passed references.
type Exporter interface {
	Export(targetPath string) error
}
