package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/scene"
)

// buildStatic is the first scene: an unlit green cube resting on a red
// double-sided plane, both slowly turning about Z.
func buildStatic(svc compose.Services, opts Options) (*Demo, error) {
	sc := scene.New()
	box, err := compose.ConfigureObject(svc, sc, compose.ObjectConfig{
		Name:          "mybox",
		Geometry:      compose.GeometryConfig{Type: "box", Args: []float32{1, 1, 1}},
		Material:      compose.MaterialConfig{Type: "basic", Color: scene.Hex(0x00ff00)},
		CastShadow:    ptr(false),
		ReceiveShadow: ptr(false),
	})
	if err != nil {
		return nil, err
	}
	plane, err := compose.ConfigureObject(svc, sc, compose.ObjectConfig{
		Name:          "myplane",
		Geometry:      compose.GeometryConfig{Type: "plane", Args: []float32{5, 5}},
		Material:      compose.MaterialConfig{Type: "basic", Color: scene.Hex(0xff0000), Side: "double"},
		CastShadow:    ptr(false),
		ReceiveShadow: ptr(false),
	})
	if err != nil {
		return nil, err
	}
	plane.Rotation[0] += mgl32.DegToRad(90)
	box.Position[1] += box.Mesh.Geometry.Parameter("height") * 0.5

	cam := scene.NewCamera("camera", 55, opts.aspect(), 0.1, 1000)
	cam.Position = mgl32.Vec3{1, 2, 5}
	sc.Add(cam)
	cam.LookAt(box.Position)

	a, err := newAnimator(sc, []Spin{
		{Name: "mybox", Rate: mgl32.Vec3{0, 0, 0.005}},
		{Name: "myplane", Rate: mgl32.Vec3{0, 0, -0.005}},
	})
	if err != nil {
		return nil, err
	}
	return &Demo{Name: "static", Scene: sc, Camera: cam, animator: a}, nil
}

func ptr[T any](v T) *T { return &v }
