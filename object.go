package g3d

import "math"

// ObjectKind identifies what an Object draws.
type ObjectKind int

const (
	// KindGroup draws nothing; it only carries a transform for its children.
	KindGroup ObjectKind = iota
	// KindMesh draws triangles.
	KindMesh
	// KindLine draws a polyline through the geometry positions.
	KindLine
	// KindLight contributes to shading.
	KindLight
	// KindCamera is a viewpoint.
	KindCamera
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindLine:
		return "line"
	case KindLight:
		return "light"
	case KindCamera:
		return "camera"
	default:
		return "group"
	}
}

// Object is a node in the scene graph.
//
// Position, Rotation and Scale describe the node relative to its parent and
// may be mutated freely between frames. An object has at most one parent;
// adding it elsewhere detaches it first.
type Object struct {
	Name     string
	Position Vec3
	Rotation Euler
	Scale    Vec3
	Up       Vec3
	Visible  bool

	// Geometry and Material are set for meshes and lines.
	Geometry *Geometry
	Material Material

	// Light is set for lights.
	Light *Light

	kind        ObjectKind
	parent      *Object
	children    []*Object
	matrixWorld Mat4
}

func newObject(kind ObjectKind) Object {
	return Object{
		Scale:       V3(1, 1, 1),
		Up:          V3(0, 1, 0),
		Visible:     true,
		kind:        kind,
		matrixWorld: Identity(),
	}
}

// NewGroup creates an empty transform node.
func NewGroup() *Object {
	o := newObject(KindGroup)
	return &o
}

// NewMesh creates a triangle mesh.
func NewMesh(geometry *Geometry, material Material) *Object {
	o := newObject(KindMesh)
	o.Geometry = geometry
	o.Material = material
	return &o
}

// NewLine creates a polyline through the geometry's positions.
func NewLine(geometry *Geometry, material *LineMaterial) *Object {
	o := newObject(KindLine)
	o.Geometry = geometry
	o.Material = material
	return &o
}

// Kind returns what the object draws.
func (o *Object) Kind() ObjectKind {
	return o.kind
}

// Parent returns the object's parent, or nil.
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns a copy of the object's children.
func (o *Object) Children() []*Object {
	return append([]*Object(nil), o.children...)
}

// Add attaches children to o, detaching each from its previous parent.
// Adding an object to itself is ignored.
func (o *Object) Add(children ...*Object) {
	for _, c := range children {
		if c == nil || c == o {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = o
		o.children = append(o.children, c)
	}
}

// Remove detaches children from o. Objects that are not children are ignored.
func (o *Object) Remove(children ...*Object) {
	for _, c := range children {
		for i, existing := range o.children {
			if existing == c {
				o.children = append(o.children[:i], o.children[i+1:]...)
				c.parent = nil
				break
			}
		}
	}
}

// Traverse calls fn for o and every descendant, depth first.
func (o *Object) Traverse(fn func(*Object)) {
	fn(o)
	for _, c := range o.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips invisible subtrees.
func (o *Object) TraverseVisible(fn func(*Object)) {
	if !o.Visible {
		return
	}
	fn(o)
	for _, c := range o.children {
		c.TraverseVisible(fn)
	}
}

// ObjectByName returns the first descendant (or o itself) with the name.
func (o *Object) ObjectByName(name string) *Object {
	if o.Name == name {
		return o
	}
	for _, c := range o.children {
		if found := c.ObjectByName(name); found != nil {
			return found
		}
	}
	return nil
}

// LocalMatrix returns the transform relative to the parent.
func (o *Object) LocalMatrix() Mat4 {
	return Compose(o.Position, o.Rotation, o.Scale)
}

// MatrixWorld returns the world transform computed by the last
// UpdateMatrixWorld.
func (o *Object) MatrixWorld() Mat4 {
	return o.matrixWorld
}

// UpdateMatrixWorld recomputes the world transform of o and its descendants.
func (o *Object) UpdateMatrixWorld() {
	if o.parent != nil {
		o.matrixWorld = o.parent.matrixWorld.Multiply(o.LocalMatrix())
	} else {
		o.matrixWorld = o.LocalMatrix()
	}
	for _, c := range o.children {
		c.UpdateMatrixWorld()
	}
}

// worldMatrix computes the world transform by walking up the parents,
// without relying on a previous UpdateMatrixWorld.
func (o *Object) worldMatrix() Mat4 {
	m := o.LocalMatrix()
	for p := o.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Multiply(m)
	}
	return m
}

// WorldPosition returns the object's origin in world space.
func (o *Object) WorldPosition() Vec3 {
	return o.worldMatrix().Position()
}

// LookAt rotates the object so that it faces target (world space).
// Cameras and lights point their -Z axis at the target; other objects
// point +Z at it, so a box elongated along Z follows its direction of travel.
func (o *Object) LookAt(target Vec3) {
	pos := o.WorldPosition()

	var rot Mat4
	if o.kind == KindCamera || o.kind == KindLight {
		rot = LookRotation(pos, target, o.Up)
	} else {
		rot = LookRotation(target, pos, o.Up)
	}

	if o.parent != nil {
		rot = rotationOnly(o.parent.worldMatrix()).Transpose().Multiply(rot)
	}
	o.Rotation = EulerFromMatrix(rot)
}

// rotationOnly strips translation and scale from m.
func rotationOnly(m Mat4) Mat4 {
	r := Identity()
	for col := 0; col < 3; col++ {
		x, y, z := m.M[col], m.M[4+col], m.M[8+col]
		l := math.Sqrt(x*x + y*y + z*z)
		if l == 0 {
			continue
		}
		r.M[col], r.M[4+col], r.M[8+col] = x/l, y/l, z/l
	}
	return r
}

// Scene is the root of a scene graph.
type Scene struct {
	Object

	// Background is the clear color, in sRGB.
	Background RGBA

	// Fog, when set, blends fragments toward Fog.Color with distance.
	Fog *Fog
}

// NewScene creates an empty scene with a black background.
func NewScene() *Scene {
	return &Scene{
		Object:     newObject(KindGroup),
		Background: Black,
	}
}

// Fog is linear distance fog.
type Fog struct {
	Color     RGBA // sRGB
	Near, Far float64
}

// factor returns the fog amount in [0, 1] at view distance d.
func (f *Fog) factor(d float64) float64 {
	if f.Far <= f.Near {
		return 0
	}
	return clamp((d-f.Near)/(f.Far-f.Near), 0, 1)
}
