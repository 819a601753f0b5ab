package engine

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/scene"
)

// camera generates primary rays for a perspective camera node. Like the
// scene graph convention, it looks down its local -Z axis with +Y up.
type camera struct {
	origin     mgl32.Vec3
	right      mgl32.Vec3
	up         mgl32.Vec3
	forward    mgl32.Vec3
	halfWidth  float32
	halfHeight float32
	near, far  float32
	// view rotates world directions into camera space.
	view mgl32.Mat3
}

func newCamera(n *scene.Node, cfg RenderConfig) camera {
	p := n.Camera
	if p == nil {
		p = &scene.Camera{FOV: 50, Near: 0.1, Far: 2000}
	}
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = float32(cfg.Width) / float32(cfg.Height)
	}
	halfHeight := math.Tan(mgl32.DegToRad(p.FOV) / 2)

	w := n.WorldMatrix()
	rot := w.Mat3()
	right := rot.Mul3x1(mgl32.Vec3{1, 0, 0}).Normalize()
	up := rot.Mul3x1(mgl32.Vec3{0, 1, 0}).Normalize()
	forward := rot.Mul3x1(mgl32.Vec3{0, 0, -1}).Normalize()

	return camera{
		origin:     w.Col(3).Vec3(),
		right:      right,
		up:         up,
		forward:    forward,
		halfWidth:  halfHeight * aspect,
		halfHeight: halfHeight,
		near:       p.Near,
		far:        p.Far,
		view:       mgl32.Mat3FromRows(right, up, forward.Mul(-1)),
	}
}

// getRay returns the unit ray through normalized screen coordinates s, t in
// [0, 1], with t = 0 at the bottom edge.
func (c camera) getRay(s, t float32) ray {
	x := (2*s - 1) * c.halfWidth
	y := (2*t - 1) * c.halfHeight
	dir := c.forward.Add(c.right.Mul(x)).Add(c.up.Mul(y)).Normalize()
	return ray{orig: c.origin, dir: dir}
}

// clip returns the ray parameter range between the near and far planes.
func (c camera) clip(r ray) (float32, float32) {
	cos := r.dir.Dot(c.forward)
	if cos <= 0 {
		return 0, 0
	}
	far := c.far
	if far <= 0 {
		far = 2000
	}
	return c.near / cos, far / cos
}
