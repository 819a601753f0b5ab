package engine

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type ray struct {
	orig mgl32.Vec3
	dir  mgl32.Vec3
}

func (r ray) at(t float32) mgl32.Vec3 {
	return r.orig.Add(r.dir.Mul(t))
}

// rgb is a linear color triple.
type rgb = mgl32.Vec3

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func mix(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func reflectVec(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

func saturate(x float32) float32 {
	return clamp(x, 0, 1)
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

func smoothstep(lo, hi, x float32) float32 {
	t := saturate((x - lo) / (hi - lo))
	return t * t * (3 - 2*t)
}

// sphereInterval returns the ray parameters where r enters and leaves the
// sphere at center with the given radius. The direction must be unit length.
func sphereInterval(r ray, center mgl32.Vec3, radius float32) (float32, float32, bool) {
	oc := r.orig.Sub(center)
	halfB := oc.Dot(r.dir)
	c := oc.Dot(oc) - radius*radius
	disc := halfB*halfB - c
	if disc < 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(disc)
	return -halfB - sqrtD, -halfB + sqrtD, true
}

// columnScales returns the smallest and largest axis scale of the upper
// 3x3 of m.
func columnScales(m mgl32.Mat4) (lo, hi float32) {
	lo, hi = math.MaxFloat32, 0
	for i := 0; i < 3; i++ {
		s := m.Col(i).Vec3().Len()
		lo = min(lo, s)
		hi = max(hi, s)
	}
	return lo, hi
}
