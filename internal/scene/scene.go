// Package scene models the host scene graph the pipeline runs against:
// objects, materials, containers, and the collaborator contracts for the
// import/merge/export subsystems the pipeline does not own. Keeping the graph
// behind this package makes classification and combination logic testable
// without a live host.
package scene

// Kind discriminates the entity types the pipeline cares about.
type Kind int

const (
	KindMesh Kind = iota
	KindArmature
)

// Image is an external image-texture reference inside a material.
type Image struct {
	Name string
	Path string
}

// Material holds the image-texture references of one material slot.
type Material struct {
	Name   string
	Images []*Image
}

// Copy duplicates the material and its image references.
func (m *Material) Copy() *Material {
	images := make([]*Image, len(m.Images))
	for i, img := range m.Images {
		c := *img
		images[i] = &c
	}
	return &Material{Name: m.Name, Images: images}
}

// Object is one scene entity: a mesh or an armature.
type Object struct {
	Name      string
	Kind      Kind
	MeshName  string // Name of the mesh data block, meshes only.
	Materials []*Material
	Parent    *Object
	SrcFile   string

	// ArmatureMod reports whether the mesh carries an armature modifier,
	// i.e. whether it can bind to a skeleton at all.
	ArmatureMod bool

	Selected bool
	Hidden   bool
}

// Copy duplicates the object together with its mesh data and materials.
// The parent link is shared, not copied.
func (o *Object) Copy() *Object {
	materials := make([]*Material, len(o.Materials))
	for i, m := range o.Materials {
		materials[i] = m.Copy()
	}
	c := *o
	c.Materials = materials
	c.Selected = false
	return &c
}

// Bind parents the object to the armature and retargets its armature
// modifier. It reports false when the object has no armature modifier
// (a static mesh cannot bind).
func (o *Object) Bind(armature *Object) bool {
	o.Parent = armature
	return o.ArmatureMod
}

// Container is a named grouping of objects, the pipeline's unit of
// bookkeeping (category pools, failure buckets, export sets).
type Container struct {
	Name     string
	Objects  []*Object
	Children []*Container
}

// Link adds objects to the container.
func (c *Container) Link(objs ...*Object) {
	c.Objects = append(c.Objects, objs...)
}

// Unlink removes an object from the container, if present.
func (c *Container) Unlink(obj *Object) {
	for i, o := range c.Objects {
		if o == obj {
			c.Objects = append(c.Objects[:i], c.Objects[i+1:]...)
			return
		}
	}
}

// LinkChild nests a container under this one.
func (c *Container) LinkChild(child *Container) {
	c.Children = append(c.Children, child)
}

// Reserved container names. Category containers live next to these under the
// source container; the underscore prefix marks buckets that never become
// combination factors.
const (
	ContainerSource    = "src"
	ContainerExport    = "export"
	ContainerFailed    = "_failed"
	ContainerIgnore    = "_ignore"
	ContainerMandatory = "_mandatory"
)

// Scene is the per-run bookkeeping state: all containers by intended name
// plus the objects linked into the run. The host may rename containers on
// collision, so lookups always go through the intended-name map.
type Scene struct {
	containers map[string]*Container
	objects    []*Object
}

// New creates a scene with the reserved container layout: src and export at
// the top, with the failed/ignore/mandatory buckets nested under src.
func New() *Scene {
	s := &Scene{containers: make(map[string]*Container)}
	src := s.newContainer(ContainerSource)
	for _, name := range []string{ContainerFailed, ContainerIgnore, ContainerMandatory} {
		src.LinkChild(s.newContainer(name))
	}
	s.newContainer(ContainerExport)
	return s
}

func (s *Scene) newContainer(name string) *Container {
	c := &Container{Name: name}
	s.containers[name] = c
	return c
}

// AddCategories creates one container per category name under the source
// container. Already-known names are kept as-is.
func (s *Scene) AddCategories(names []string) {
	src := s.containers[ContainerSource]
	for _, name := range names {
		if _, ok := s.containers[name]; ok {
			continue
		}
		src.LinkChild(s.newContainer(name))
	}
}

// Container looks up a container by intended name.
func (s *Scene) Container(name string) (*Container, bool) {
	c, ok := s.containers[name]
	return c, ok
}

// NewExportSet creates a named container under the export container and
// links the given objects to it.
func (s *Scene) NewExportSet(name string, objs []*Object) (*Container, error) {
	export, ok := s.containers[ContainerExport]
	if !ok {
		return nil, ErrNotInitialized
	}
	set := &Container{Name: name}
	set.Link(objs...)
	export.LinkChild(set)
	return set, nil
}

// Categories returns the category containers in creation order: the children
// of src minus the reserved buckets.
func (s *Scene) Categories() []*Container {
	src, ok := s.containers[ContainerSource]
	if !ok {
		return nil
	}
	var cats []*Container
	for _, child := range src.Children {
		switch child.Name {
		case ContainerFailed, ContainerIgnore, ContainerMandatory:
			continue
		}
		cats = append(cats, child)
	}
	return cats
}

// Track registers an object with the scene.
func (s *Scene) Track(objs ...*Object) {
	s.objects = append(s.objects, objs...)
}

// Objects returns all objects registered with the scene.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// DeselectAll clears the selection on every tracked object.
func (s *Scene) DeselectAll() {
	for _, obj := range s.objects {
		obj.Selected = false
	}
}

// SelectOnly makes the given objects the exclusive selection and clears
// their hidden flags, the working-set contract the exporter operates on.
func (s *Scene) SelectOnly(objs []*Object) {
	s.DeselectAll()
	for _, obj := range objs {
		obj.Hidden = false
		obj.Selected = true
	}
}

// Selected returns the currently selected objects in tracking order.
func (s *Scene) Selected() []*Object {
	var sel []*Object
	for _, obj := range s.objects {
		if obj.Selected {
			sel = append(sel, obj)
		}
	}
	return sel
}
