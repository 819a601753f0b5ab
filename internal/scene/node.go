package scene

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
)

// Kind enumerates what a Node carries besides its transform.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindCamera
	KindAmbientLight
	KindPointLight
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindCamera:
		return "camera"
	case KindAmbientLight:
		return "ambient"
	case KindPointLight:
		return "point"
	default:
		return "group"
	}
}

// Mesh pairs a resolved geometry with a resolved material.
type Mesh struct {
	Geometry *geometry.Geometry
	Material *material.Material
}

// Light holds the parameters shared by ambient and point lights.
type Light struct {
	Color     Color
	Intensity float32

	// Distance is the range of a point light; 0 means unlimited.
	Distance float32
	// Decay is the falloff exponent applied inside Distance.
	Decay float32

	ShadowMapSize int
}

// Node is an element of the scene graph. A parent owns its children.
type Node struct {
	Name string
	Kind Kind

	Position mgl32.Vec3
	// Rotation holds Euler angles in radians, applied in X, Y, Z order.
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	CastShadow    bool
	ReceiveShadow bool
	Visible       bool

	Mesh   *Mesh
	Camera *Camera
	Light  *Light

	parent   *Node
	children []*Node
}

func newNode(name string, kind Kind) *Node {
	return &Node{
		Name:    name,
		Kind:    kind,
		Scale:   mgl32.Vec3{1, 1, 1},
		Visible: true,
	}
}

// NewGroup returns an empty grouping node.
func NewGroup(name string) *Node {
	return newNode(name, KindGroup)
}

// NewMesh returns a mesh node for the given geometry and material.
func NewMesh(name string, g *geometry.Geometry, m *material.Material) *Node {
	n := newNode(name, KindMesh)
	n.Mesh = &Mesh{Geometry: g, Material: m}
	return n
}

// NewAmbientLight returns a light that illuminates every surface evenly.
func NewAmbientLight(name string, c Color, intensity float32) *Node {
	n := newNode(name, KindAmbientLight)
	n.Light = &Light{Color: c, Intensity: intensity}
	return n
}

// NewPointLight returns an omnidirectional light located at the node position.
func NewPointLight(name string, c Color, intensity float32) *Node {
	n := newNode(name, KindPointLight)
	n.Light = &Light{Color: c, Intensity: intensity, Decay: 2}
	return n
}

// Parent returns the node that owns n, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children of n. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse visits n and its descendants depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// FindByName returns the first node in the subtree with the given name.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// RotationMatrix returns the rotation part of the local transform.
func (n *Node) RotationMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(n.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(n.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation.Z()))
}

// LocalMatrix composes translation, rotation and scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	s := mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z())
	return t.Mul4(n.RotationMatrix()).Mul4(s)
}

// WorldMatrix returns the transform from the node's local space to world space.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// LookAt rotates n so that its -Z axis points at the world-space target.
func (n *Node) LookAt(target mgl32.Vec3) {
	eye := n.Position
	if n.parent != nil {
		inv := n.parent.WorldMatrix().Inv()
		target = mgl32.TransformCoordinate(target, inv)
	}
	if eye.ApproxEqual(target) {
		return
	}
	view := mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
	n.Rotation = EulerFromMatrix(view.Transpose())
}

// EulerFromMatrix extracts XYZ-ordered Euler angles from the upper 3x3 of m,
// which must be a pure rotation.
func EulerFromMatrix(m mgl32.Mat4) mgl32.Vec3 {
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y := math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		return mgl32.Vec3{math.Atan2(-m23, m33), y, math.Atan2(-m12, m11)}
	}
	return mgl32.Vec3{math.Atan2(m32, m22), y, 0}
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
