package compose

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/user/sceneforge/internal/geometry"
	"github.com/user/sceneforge/internal/material"
	"github.com/user/sceneforge/internal/scene"
	"github.com/user/sceneforge/internal/tweak"
)

// Default light parameters.
const (
	DefaultShadowMapSize = 2048
	DefaultMarkerRadius  = 0.1
	DefaultDecay         = 2
)

// AmbientConfig describes the ambient light. Intensity defaults to 0.
type AmbientConfig struct {
	Color     *scene.HexColor `yaml:"color,omitempty"`
	Intensity float32         `yaml:"intensity,omitempty"`
}

// PointLightConfig describes one point light.
type PointLightConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	// Intensity defaults to 1.
	Intensity *float32 `yaml:"intensity,omitempty"`
	// Color defaults to white.
	Color *scene.HexColor `yaml:"color,omitempty"`
	// Distance is the light range; 0 means unlimited.
	Distance float32 `yaml:"distance,omitempty"`
	// Decay defaults to 2.
	Decay *float32 `yaml:"decay,omitempty"`
	// CastShadow defaults to true.
	CastShadow *bool `yaml:"castShadow,omitempty"`
	// ShadowMapSize overrides LightsConfig.ShadowMapSize.
	ShadowMapSize int `yaml:"shadowMapSize,omitempty"`
	// MarkerRadius is the radius of the marker sphere; 0 means 0.1.
	MarkerRadius float32 `yaml:"markerRadius,omitempty"`
}

// LightsConfig describes the lights of a scene.
type LightsConfig struct {
	Ambient AmbientConfig      `yaml:"ambient"`
	Points  []PointLightConfig `yaml:"points,omitempty"`
	// ShadowMapSize applies to every point light that does not set one;
	// 0 means 2048.
	ShadowMapSize int  `yaml:"shadowMapSize,omitempty"`
	Tweak         bool `yaml:"tweak,omitempty"`
}

var (
	intensityRange = tweak.Range{Min: 0, Max: 10, Step: 0.01}
	lightPosRange  = tweak.Range{Min: -20, Max: 20, Step: 0.1}
)

// ConfigureLights adds exactly one ambient light plus one point light per
// entry of cfg.Points, each carrying a marker sphere. The ambient light is
// returned first.
func ConfigureLights(svc Services, sc *scene.Scene, cfg LightsConfig) []*scene.Node {
	white := scene.RGB(0xffffff)
	p := svc.panel(cfg.Tweak)

	ambientColor := white
	if cfg.Ambient.Color != nil {
		ambientColor = cfg.Ambient.Color.Color
	}
	ambient := scene.NewAmbientLight("ambientLight", ambientColor, cfg.Ambient.Intensity)
	sc.Add(ambient)
	out := []*scene.Node{ambient}
	if p != nil {
		f := p.AddFolder("Ambient")
		f.AddNumber("intensity", &ambient.Light.Intensity, intensityRange)
		f.AddColor("color", &ambient.Light.Color)
	}

	mapSize := cfg.ShadowMapSize
	if mapSize <= 0 {
		mapSize = DefaultShadowMapSize
	}
	for i, pc := range cfg.Points {
		color := white
		if pc.Color != nil {
			color = pc.Color.Color
		}
		light := scene.NewPointLight(fmt.Sprintf("pointLight%d", i+1), color, floatOr(pc.Intensity, 1))
		light.Position = pc.Position
		light.Light.Distance = max(pc.Distance, 0)
		light.Light.Decay = floatOr(pc.Decay, DefaultDecay)
		light.CastShadow = boolOr(pc.CastShadow, true)
		light.Light.ShadowMapSize = mapSize
		if pc.ShadowMapSize > 0 {
			light.Light.ShadowMapSize = pc.ShadowMapSize
		}

		marker := newMarker(light, pc.MarkerRadius)
		light.Add(marker)
		sc.Add(light)
		out = append(out, light)

		if p != nil {
			bindLight(p, light, marker)
		}
	}
	svc.log().Debug("configure lights", "points", len(cfg.Points), "shadowMapSize", mapSize)
	return out
}

// newMarker returns the small unlit sphere that shows where a light sits.
func newMarker(light *scene.Node, radius float32) *scene.Node {
	if radius <= 0 {
		radius = DefaultMarkerRadius
	}
	c := light.Light.Color
	m, _ := material.New("basic", material.Props{Color: &c})
	n := scene.NewMesh(light.Name+"Marker", geometry.MustNew("sphere", radius, 16, 8), m)
	n.CastShadow = false
	n.ReceiveShadow = false
	return n
}

func bindLight(p tweak.Panel, light, marker *scene.Node) {
	f := p.AddFolder(fmt.Sprintf("Light %d", tweak.CountFolders(p, "Light ")+1))
	f.AddNumber("intensity", &light.Light.Intensity, intensityRange)
	f.AddColor("color", &light.Light.Color).OnChange(func() {
		marker.Mesh.Material.Color = light.Light.Color
	})
	f.AddNumber("position.x", &light.Position[0], lightPosRange)
	f.AddNumber("position.y", &light.Position[1], lightPosRange)
	f.AddNumber("position.z", &light.Position[2], lightPosRange)
}
