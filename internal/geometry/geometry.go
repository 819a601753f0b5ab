// Package geometry resolves symbolic shape names into immutable shapes
// described by signed distance functions in local space.
package geometry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind enumerates the supported shapes.
type Kind uint8

const (
	Unsupported Kind = iota
	Box
	Sphere
	Plane
	Circle
	Cylinder
	Cone
	Torus
	TorusKnot
	Capsule
	Ring
	Tetrahedron
	Octahedron
	Icosahedron
	Dodecahedron
)

// ErrUnsupported is wrapped by every *UnsupportedError.
var ErrUnsupported = errors.New("unsupported geometry")

// UnsupportedError reports a shape name with no matching Kind.
// The factory still returns the default geometry alongside it.
type UnsupportedError struct {
	Name     string
	Fallback Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("geometry %q is not supported, using %s", e.Name, e.Fallback)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// shape describes one Kind: its canonical name, argument names and defaults.
type shape struct {
	name     string
	params   []string
	defaults []float32
}

var shapes = map[Kind]shape{
	Box:          {"box", []string{"width", "height", "depth"}, []float32{1, 1, 1}},
	Sphere:       {"sphere", []string{"radius", "widthSegments", "heightSegments"}, []float32{1, 32, 16}},
	Plane:        {"plane", []string{"width", "height"}, []float32{1, 1}},
	Circle:       {"circle", []string{"radius", "segments"}, []float32{1, 32}},
	Cylinder:     {"cylinder", []string{"radiusTop", "radiusBottom", "height", "radialSegments"}, []float32{1, 1, 1, 32}},
	Cone:         {"cone", []string{"radius", "height", "radialSegments"}, []float32{1, 1, 32}},
	Torus:        {"torus", []string{"radius", "tube", "radialSegments", "tubularSegments"}, []float32{1, 0.4, 12, 48}},
	TorusKnot:    {"torusknot", []string{"radius", "tube", "tubularSegments", "radialSegments", "p", "q"}, []float32{1, 0.4, 64, 8, 2, 3}},
	Capsule:      {"capsule", []string{"radius", "length", "capSegments", "radialSegments"}, []float32{1, 1, 4, 8}},
	Ring:         {"ring", []string{"innerRadius", "outerRadius", "thetaSegments"}, []float32{0.5, 1, 32}},
	Tetrahedron:  {"tetrahedron", []string{"radius", "detail"}, []float32{1, 0}},
	Octahedron:   {"octahedron", []string{"radius", "detail"}, []float32{1, 0}},
	Icosahedron:  {"icosahedron", []string{"radius", "detail"}, []float32{1, 0}},
	Dodecahedron: {"dodecahedron", []string{"radius", "detail"}, []float32{1, 0}},
}

// byName maps normalized names and common aliases to kinds.
var byName = func() map[string]Kind {
	m := map[string]Kind{
		"cube":    Box,
		"cuboid":  Box,
		"disc":    Circle,
		"knot":    TorusKnot,
		"pill":    Capsule,
		"annulus": Ring,
		"tetra":   Tetrahedron,
		"octa":    Octahedron,
		"icosa":   Icosahedron,
		"dodeca":  Dodecahedron,
	}
	for k, s := range shapes {
		m[s.name] = k
	}
	return m
}()

// ParseKind resolves a shape name case-insensitively. Separators and a
// trailing "geometry" are ignored, so "TorusKnotGeometry" and "torus_knot"
// both resolve to TorusKnot.
func ParseKind(name string) Kind {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", "", "-", "", " ", "").Replace(n)
	n = strings.TrimSuffix(n, "buffergeometry")
	n = strings.TrimSuffix(n, "geometry")
	return byName[n]
}

func (k Kind) String() string {
	if s, ok := shapes[k]; ok {
		return s.name
	}
	return "unsupported"
}

// Kinds lists every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(shapes))
	for k := Box; k <= Dodecahedron; k++ {
		out = append(out, k)
	}
	return out
}

// Geometry is an immutable shape.
type Geometry struct {
	Kind Kind

	params []float32
	sdf    func(p mgl32.Vec3) float32
	bound  float32
}

// New builds the geometry named name from its ordered arguments. Missing
// arguments take the shape's defaults and extra ones are ignored. An unknown
// name yields the unit cube together with an *UnsupportedError.
func New(name string, args ...float32) (*Geometry, error) {
	k := ParseKind(name)
	if k == Unsupported {
		return build(Box, nil), &UnsupportedError{Name: name, Fallback: Box}
	}
	return build(k, args), nil
}

// MustNew is New for names known at compile time.
func MustNew(name string, args ...float32) *Geometry {
	g, err := New(name, args...)
	if err != nil {
		panic(err)
	}
	return g
}

// Default returns the unit cube used for unknown names.
func Default() *Geometry {
	return build(Box, nil)
}

func build(k Kind, args []float32) *Geometry {
	s := shapes[k]
	params := make([]float32, len(s.defaults))
	copy(params, s.defaults)
	copy(params, args)

	g := &Geometry{Kind: k, params: params}
	g.sdf, g.bound = distanceFunc(k, params)
	return g
}

// Parameter returns a named constructor argument, e.g. "height" for a box.
// Unknown names return 0.
func (g *Geometry) Parameter(name string) float32 {
	for i, p := range shapes[g.Kind].params {
		if p == name {
			return g.params[i]
		}
	}
	return 0
}

// Parameters returns a copy of the resolved argument list.
func (g *Geometry) Parameters() []float32 {
	out := make([]float32, len(g.params))
	copy(out, g.params)
	return out
}

// Distance returns the signed distance from local point p to the surface.
// It is exact for most shapes and a lower bound for the rest.
func (g *Geometry) Distance(p mgl32.Vec3) float32 {
	return g.sdf(p)
}

// BoundingRadius returns the radius of a sphere around the local origin
// that contains the shape.
func (g *Geometry) BoundingRadius() float32 {
	return g.bound
}

// Normal estimates the outward surface normal at local point p.
func (g *Geometry) Normal(p mgl32.Vec3) mgl32.Vec3 {
	const h = 1e-3
	dx := g.sdf(p.Add(mgl32.Vec3{h, 0, 0})) - g.sdf(p.Sub(mgl32.Vec3{h, 0, 0}))
	dy := g.sdf(p.Add(mgl32.Vec3{0, h, 0})) - g.sdf(p.Sub(mgl32.Vec3{0, h, 0}))
	dz := g.sdf(p.Add(mgl32.Vec3{0, 0, h})) - g.sdf(p.Sub(mgl32.Vec3{0, 0, h}))
	n := mgl32.Vec3{dx, dy, dz}
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}
