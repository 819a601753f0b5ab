package geometry

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// thickness is the half-thickness given to flat shapes so they have a
// well-defined gradient.
const thickness = 1e-3

const phi = 1.618033988749895

// polyhedron face normals, one per parallel pair of faces.
var (
	octaNormals = normalized(
		mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, 1, -1},
	)
	tetraNormals = normalized(
		mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, -1}, mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{1, -1, 1},
	)
	dodecaNormals = normalized(
		mgl32.Vec3{0, 1, phi}, mgl32.Vec3{0, -1, phi},
		mgl32.Vec3{1, phi, 0}, mgl32.Vec3{-1, phi, 0},
		mgl32.Vec3{phi, 0, 1}, mgl32.Vec3{-phi, 0, 1},
	)
	icosaNormals = normalized(
		mgl32.Vec3{1, 1, 1}, mgl32.Vec3{-1, 1, 1}, mgl32.Vec3{1, -1, 1}, mgl32.Vec3{1, 1, -1},
		mgl32.Vec3{0, 1 / phi, phi}, mgl32.Vec3{0, -1 / phi, phi},
		mgl32.Vec3{1 / phi, phi, 0}, mgl32.Vec3{-1 / phi, phi, 0},
		mgl32.Vec3{phi, 0, 1 / phi}, mgl32.Vec3{-phi, 0, 1 / phi},
	)
)

// inradius / circumradius for the icosahedron and the dodecahedron.
const platonicInradius = 0.7946544722917661

func normalized(vs ...mgl32.Vec3) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(vs))
	for i, v := range vs {
		out[i] = v.Normalize()
	}
	return out
}

// distanceFunc returns the distance function of k and its bounding radius.
func distanceFunc(k Kind, a []float32) (func(mgl32.Vec3) float32, float32) {
	switch k {
	case Sphere:
		r := a[0]
		return func(p mgl32.Vec3) float32 { return p.Len() - r }, r
	case Plane:
		half := mgl32.Vec3{a[0] / 2, a[1] / 2, thickness}
		return boxDistance(half), half.Len()
	case Circle:
		r := a[0]
		return discDistance(0, r), r
	case Ring:
		return discDistance(a[0], a[1]), a[1]
	case Cylinder:
		top, bottom, h := a[0], a[1], a[2]/2
		return cappedCone(h, bottom, top), math.Hypot(math.Max(top, bottom), h)
	case Cone:
		r, h := a[0], a[1]/2
		return cappedCone(h, r, 0), math.Hypot(r, h)
	case Torus:
		major, minor := a[0], a[1]
		return func(p mgl32.Vec3) float32 {
			q := math.Hypot(p.X(), p.Y()) - major
			return math.Hypot(q, p.Z()) - minor
		}, major + minor
	case TorusKnot:
		return torusKnot(a[0], a[1], int(a[2]), a[4], a[5])
	case Capsule:
		r, h := a[0], a[1]/2
		return func(p mgl32.Vec3) float32 {
			y := p.Y() - clamp(p.Y(), -h, h)
			return math.Sqrt(p.X()*p.X()+y*y+p.Z()*p.Z()) - r
		}, r + h
	case Tetrahedron:
		return facesDistance(tetraNormals, a[0]/3, false), a[0]
	case Octahedron:
		return facesDistance(octaNormals, a[0]/math.Sqrt(3), true), a[0]
	case Icosahedron:
		return facesDistance(icosaNormals, a[0]*platonicInradius, true), a[0]
	case Dodecahedron:
		return facesDistance(dodecaNormals, a[0]*platonicInradius, true), a[0]
	default:
		half := mgl32.Vec3{a[0] / 2, a[1] / 2, a[2] / 2}
		return boxDistance(half), half.Len()
	}
}

func boxDistance(half mgl32.Vec3) func(mgl32.Vec3) float32 {
	return func(p mgl32.Vec3) float32 {
		qx := math.Abs(p.X()) - half.X()
		qy := math.Abs(p.Y()) - half.Y()
		qz := math.Abs(p.Z()) - half.Z()
		outside := mgl32.Vec3{math.Max(qx, 0), math.Max(qy, 0), math.Max(qz, 0)}.Len()
		return outside + math.Min(math.Max(qx, math.Max(qy, qz)), 0)
	}
}

// discDistance is a flat annulus in the XY plane; inner == 0 gives a disc.
func discDistance(inner, outer float32) func(mgl32.Vec3) float32 {
	return func(p mgl32.Vec3) float32 {
		q := math.Hypot(p.X(), p.Y())
		dx := math.Max(inner-q, q-outer)
		dz := math.Abs(p.Z()) - thickness
		return math.Hypot(math.Max(dx, 0), math.Max(dz, 0)) + math.Min(math.Max(dx, dz), 0)
	}
}

// cappedCone is a frustum along Y with half height h, bottom radius r1 and
// top radius r2.
func cappedCone(h, r1, r2 float32) func(mgl32.Vec3) float32 {
	k1 := mgl32.Vec2{r2, h}
	k2 := mgl32.Vec2{r2 - r1, 2 * h}
	k2sq := k2.Dot(k2)
	return func(p mgl32.Vec3) float32 {
		q := mgl32.Vec2{math.Hypot(p.X(), p.Z()), p.Y()}
		r := r2
		if q.Y() < 0 {
			r = r1
		}
		ca := mgl32.Vec2{q.X() - math.Min(q.X(), r), math.Abs(q.Y()) - h}
		t := float32(0)
		if k2sq > 0 {
			t = clamp(k1.Sub(q).Dot(k2)/k2sq, 0, 1)
		}
		cb := q.Sub(k1).Add(k2.Mul(t))
		s := float32(1)
		if cb.X() < 0 && ca.Y() < 0 {
			s = -1
		}
		return s * math.Sqrt(math.Min(ca.Dot(ca), cb.Dot(cb)))
	}
}

// facesDistance is a bound built from face planes at distance inradius.
// Symmetric solids list one normal per opposite pair.
func facesDistance(normals []mgl32.Vec3, inradius float32, symmetric bool) func(mgl32.Vec3) float32 {
	return func(p mgl32.Vec3) float32 {
		d := float32(-math.MaxFloat32)
		for _, n := range normals {
			v := p.Dot(n)
			if symmetric {
				v = math.Abs(v)
			}
			d = math.Max(d, v)
		}
		return d - inradius
	}
}

// torusKnot samples the (p, q) knot curve into a closed polyline and
// measures the distance to it as a tube.
func torusKnot(radius, tube float32, segments int, p, q float32) (func(mgl32.Vec3) float32, float32) {
	if segments < 8 {
		segments = 8
	}
	if p == 0 {
		p = 2
	}
	n := segments * 2
	pts := make([]mgl32.Vec3, n+1)
	var bound float32
	for i := 0; i <= n; i++ {
		u := float32(i) / float32(n) * p * 2 * math.Pi
		pts[i] = knotPoint(u, p, q, radius)
		bound = math.Max(bound, pts[i].Len())
	}
	return func(x mgl32.Vec3) float32 {
		best := float32(math.MaxFloat32)
		for i := 0; i < n; i++ {
			best = math.Min(best, segmentDistance(x, pts[i], pts[i+1]))
		}
		return best - tube
	}, bound + tube
}

func knotPoint(u, p, q, radius float32) mgl32.Vec3 {
	cu, su := math.Cos(u), math.Sin(u)
	quOverP := q / p * u
	cs := math.Cos(quOverP)
	return mgl32.Vec3{
		radius * (2 + cs) * 0.5 * cu,
		radius * (2 + cs) * su * 0.5,
		radius * math.Sin(quOverP) * 0.5,
	}
}

func segmentDistance(p, a, b mgl32.Vec3) float32 {
	pa, ba := p.Sub(a), b.Sub(a)
	den := ba.Dot(ba)
	if den == 0 {
		return pa.Len()
	}
	h := clamp(pa.Dot(ba)/den, 0, 1)
	return pa.Sub(ba.Mul(h)).Len()
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
