package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
)

// object is a mesh flattened to world space for one frame.
type object struct {
	name string
	geom *geometry.Geometry
	mat  *material.Material

	world mgl32.Mat4
	inv   mgl32.Mat4
	// normalMat maps local normals to world space.
	normalMat mgl32.Mat3

	center mgl32.Vec3
	radius float32
	// minScale converts local distances into conservative world distances.
	minScale float32

	castShadow    bool
	receiveShadow bool
}

func (o *object) local(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, o.inv)
}

// distance is a lower bound of the world distance from p to the surface.
func (o *object) distance(p mgl32.Vec3) float32 {
	return o.geom.Distance(o.local(p)) * o.minScale
}

func (o *object) normal(p mgl32.Vec3) mgl32.Vec3 {
	return o.normalMat.Mul3x1(o.geom.Normal(o.local(p))).Normalize()
}

type hitRecord struct {
	t      float32
	p      mgl32.Vec3
	normal mgl32.Vec3
	obj    *object
}

// candidate is an object whose bounding sphere the current ray crosses
// between t0 and t1.
type candidate struct {
	obj    *object
	t0, t1 float32
}

// sceneToWorld snapshots the visible meshes of sc.
func sceneToWorld(sc *scene.Scene) []object {
	meshes := sc.Meshes()
	world := make([]object, 0, len(meshes))
	for _, n := range meshes {
		if n.Mesh == nil || n.Mesh.Geometry == nil {
			continue
		}
		m := n.Mesh.Material
		if m == nil {
			m = material.Default()
		}
		w := n.WorldMatrix()
		lo, hi := columnScales(w)
		if lo == 0 {
			continue
		}
		world = append(world, object{
			name:          n.Name,
			geom:          n.Mesh.Geometry,
			mat:           m,
			world:         w,
			inv:           w.Inv(),
			normalMat:     w.Mat3().Inv().Transpose(),
			center:        w.Col(3).Vec3(),
			radius:        n.Mesh.Geometry.BoundingRadius() * hi,
			minScale:      lo,
			castShadow:    n.CastShadow,
			receiveShadow: n.ReceiveShadow,
		})
	}
	return world
}

// gather fills buf with the objects whose bounds r crosses inside
// [tMin, tMax]. keep filters objects; nil keeps all.
func gather(buf []candidate, world []object, r ray, tMin, tMax float32, keep func(*object) bool) []candidate {
	buf = buf[:0]
	for i := range world {
		o := &world[i]
		if keep != nil && !keep(o) {
			continue
		}
		t0, t1, ok := sphereInterval(r, o.center, o.radius*1.01+1e-3)
		if !ok || t1 < tMin || t0 > tMax {
			continue
		}
		buf = append(buf, candidate{obj: o, t0: max(t0, tMin), t1: min(t1, tMax)})
	}
	return buf
}

func hitEpsilon(t float32) float32 {
	return 1e-4 + 5e-4*t
}

// march sphere-traces r through the candidates and reports the first
// surface hit in [tMin, tMax].
func march(r ray, cands []candidate, tMin, tMax float32, maxSteps int, rec *hitRecord) bool {
	t := tMin
	for i := 0; i < maxSteps && t <= tMax; i++ {
		p := r.at(t)
		step := tMax - t + 1
		var nearest *object
		nearestD := step
		for _, c := range cands {
			if c.t1 < t {
				continue
			}
			if c.t0 > t {
				step = min(step, c.t0-t)
				continue
			}
			d := c.obj.distance(p)
			if d < nearestD {
				nearestD = d
				nearest = c.obj
			}
			step = min(step, max(d, 0))
		}
		if nearest != nil && nearestD < hitEpsilon(t) {
			rec.t = t
			rec.p = p
			rec.obj = nearest
			rec.normal = nearest.normal(p)
			return true
		}
		if nearest == nil && step > tMax-t {
			return false
		}
		t += max(step, hitEpsilon(t)*0.5)
	}
	return false
}

// softShadow returns the unoccluded fraction of light reaching p along dir
// within dist, with penumbra sharpness k.
func softShadow(world []object, buf []candidate, p, dir mgl32.Vec3, dist, k float32, maxSteps int) (float32, []candidate) {
	r := ray{orig: p, dir: dir}
	const tMin float32 = 2e-2
	buf = gather(buf, world, r, tMin, dist, func(o *object) bool { return o.castShadow })
	if len(buf) == 0 {
		return 1, buf
	}

	res := float32(1)
	t := tMin
	for i := 0; i < maxSteps && t < dist; i++ {
		q := r.at(t)
		step := dist - t
		h := step
		entered := false
		for _, c := range buf {
			if c.t1 < t {
				continue
			}
			if c.t0 > t {
				step = min(step, c.t0-t)
				continue
			}
			entered = true
			d := c.obj.distance(q)
			h = min(h, d)
			step = min(step, max(d, 0))
		}
		if !entered {
			t += step + 1e-4
			continue
		}
		if h < hitEpsilon(t) {
			return 0, buf
		}
		res = min(res, k*h/t)
		t += clamp(step, 1e-3, 0.5)
	}
	res = saturate(res)
	return res * res * (3 - 2*res), buf
}
