package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/compose"
	"github.com/user/sceneforge/internal/scene"
)

// litScene is a shaded floor with three objects under two point lights.
// With tweak set every object, light, the camera rig and the fog get a
// panel folder.
func litScene(tweak bool) *File {
	name := "lit"
	if tweak {
		name = "panel"
	}
	return &File{
		Name: name,
		Camera: CameraConfig{
			FOV: 55,
			Rig: &compose.RigConfig{
				Position: mgl32.Vec3{0, 1, 9},
				Rotation: mgl32.Vec3{-0.3, 0, 0},
				Tweak:    tweak,
			},
		},
		Fog: &compose.FogConfig{Color: *scene.Hex(0x101018), Density: ptr[float32](0.03), Tweak: tweak},
		Lights: &compose.LightsConfig{
			Ambient: compose.AmbientConfig{Color: scene.Hex(0xffffff), Intensity: 0.15},
			Points: []compose.PointLightConfig{
				{Position: mgl32.Vec3{3, 5, 3}, Intensity: ptr[float32](1.2), Distance: 30},
				{Position: mgl32.Vec3{-4, 3, -2}, Color: scene.Hex(0xffccaa), Intensity: ptr[float32](0.6), Distance: 25},
			},
			Tweak: tweak,
		},
		Objects: []compose.ObjectConfig{
			{
				Name:          "floor",
				Geometry:      compose.GeometryConfig{Type: "plane", Args: []float32{20, 20}},
				Material:      compose.MaterialConfig{Type: "lambert", Color: scene.Hex(0x808080)},
				Rotation:      mgl32.Vec3{-mgl32.DegToRad(90), 0, 0},
				CastShadow:    ptr(false),
				ReceiveShadow: ptr(true),
				Tweak:         tweak,
			},
			{
				Name:     "cube",
				Geometry: compose.GeometryConfig{Type: "box", Args: []float32{1.5, 1.5, 1.5}},
				Material: compose.MaterialConfig{
					Type:      "phong",
					Color:     scene.Hex(0x2194ce),
					Specular:  scene.Hex(0x444444),
					Shininess: ptr[float32](60),
				},
				Position: mgl32.Vec3{-2, 1, 0},
				Tweak:    tweak,
			},
			{
				Name:     "sphere",
				Geometry: compose.GeometryConfig{Type: "sphere", Args: []float32{1, 32, 16}},
				Material: compose.MaterialConfig{
					Type:      "standard",
					Color:     scene.Hex(0xffaa00),
					Roughness: ptr[float32](0.3),
					Metalness: ptr[float32](0.6),
				},
				Position: mgl32.Vec3{1, 1, 0},
				Tweak:    tweak,
			},
			{
				Name:     "torus",
				Geometry: compose.GeometryConfig{Type: "torus", Args: []float32{0.6, 0.2, 16, 48}},
				Material: compose.MaterialConfig{
					Type:      "physical",
					Color:     scene.Hex(0xcc3355),
					Roughness: ptr[float32](0.5),
					Clearcoat: ptr[float32](1),
				},
				Position: mgl32.Vec3{3.5, 0.8, 1},
				Tweak:    tweak,
			},
		},
		Spins: []Spin{
			{Name: "cube", Rate: mgl32.Vec3{0.01, 0.01, 0}},
			{Name: "torus", Rate: mgl32.Vec3{0, 0.02, 0}},
		},
	}
}

var (
	buildLit   = builder(litScene(false))
	buildPanel = builder(litScene(true))
)
