package scene

// Camera holds perspective projection parameters.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewCamera returns a perspective camera node.
func NewCamera(name string, fov, aspect, near, far float32) *Node {
	n := newNode(name, KindCamera)
	n.Camera = &Camera{FOV: fov, Aspect: aspect, Near: near, Far: far}
	return n
}

// SetAspect updates the aspect ratio from a surface size. Degenerate sizes are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}
