package demo

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
)

// factoryPalette colors the ring, one entry per shape.
var factoryPalette = []uint32{
	0xe63946, 0xf4a261, 0xe9c46a, 0x2a9d8f, 0x264653, 0x8ecae6, 0x219ebc,
	0x023047, 0xffb703, 0xfb8500, 0x6a4c93, 0x1982c4, 0x8ac926, 0xff595e,
}

// factoryScene shows every supported shape on a ring around a spinning
// torus knot, cycling through the shading models.
func factoryScene() *File {
	f := &File{
		Name: "factory",
		Camera: CameraConfig{
			FOV:      55,
			Position: mgl32.Vec3{0, 7, 12},
			LookAt:   &mgl32.Vec3{0, 1, 0},
		},
		Background: scene.Hex(0x1d1d24),
		Lights: &compose.LightsConfig{
			Ambient: compose.AmbientConfig{Intensity: 0.2},
			Points: []compose.PointLightConfig{
				{Position: mgl32.Vec3{0, 8, 4}, Intensity: ptr[float32](1.4)},
				{Position: mgl32.Vec3{-6, 3, -6}, Color: scene.Hex(0x99bbff), Intensity: ptr[float32](0.5), CastShadow: ptr(false)},
			},
		},
		Objects: []compose.ObjectConfig{{
			Name:          "floor",
			Geometry:      compose.GeometryConfig{Type: "circle", Args: []float32{9, 64}},
			Material:      compose.MaterialConfig{Type: "lambert", Color: scene.Hex(0x555555)},
			Rotation:      mgl32.Vec3{-math.Pi / 2, 0, 0},
			CastShadow:    ptr(false),
			ReceiveShadow: ptr(true),
		}},
	}

	kinds := geometry.Kinds()
	shading := material.Kinds()
	for i, k := range kinds {
		if k == geometry.TorusKnot {
			continue
		}
		angle := 2 * math.Pi * float32(i) / float32(len(kinds))
		pos := mgl32.Vec3{6 * math.Sin(angle), 1, 6 * math.Cos(angle)}
		var rot mgl32.Vec3
		// Flat shapes face the camera side of the ring.
		if k == geometry.Plane || k == geometry.Circle || k == geometry.Ring {
			rot = mgl32.Vec3{0, angle, 0}
		}
		f.Objects = append(f.Objects, compose.ObjectConfig{
			Name:     k.String(),
			Geometry: compose.GeometryConfig{Type: k.String()},
			Material: compose.MaterialConfig{
				Type:  shading[i%len(shading)].String(),
				Color: scene.Hex(factoryPalette[i%len(factoryPalette)]),
			},
			Position: pos,
			Rotation: rot,
			Scale:    mgl32.Vec3{0.6, 0.6, 0.6},
		})
	}

	f.Objects = append(f.Objects, compose.ObjectConfig{
		Name:     "knot",
		Geometry: compose.GeometryConfig{Type: "torusknot", Args: []float32{1, 0.3, 128, 16, 2, 3}},
		Material: compose.MaterialConfig{
			Type:      "physical",
			Color:     scene.Hex(0xd4af37),
			Roughness: ptr[float32](0.25),
			Metalness: ptr[float32](0.9),
			Clearcoat: ptr[float32](0.5),
		},
		Position: mgl32.Vec3{0, 2, 0},
	})
	f.Spins = []Spin{{Name: "knot", Rate: mgl32.Vec3{0.01, 0.01, 0}}}
	return f
}

var buildFactory = builder(factoryScene())
