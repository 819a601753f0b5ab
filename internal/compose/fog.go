package compose

import (
	"github.com/user/sceneforge/internal/scene"
	"github.com/user/sceneforge/internal/tweak"
)

// DefaultFogDensity is used when FogConfig.Density is nil.
const DefaultFogDensity = 0.00025

// FogConfig describes exponential-squared fog.
type FogConfig struct {
	Color   scene.HexColor `yaml:"color"`
	Density *float32       `yaml:"density,omitempty"`
	Tweak   bool           `yaml:"tweak,omitempty"`
}

// ConfigureFog sets the scene fog and uses the same color as background so
// distant surfaces fade into it. A panel color change updates both.
func ConfigureFog(svc Services, sc *scene.Scene, cfg FogConfig) *scene.Fog {
	fog := &scene.Fog{Color: cfg.Color.Color, Density: floatOr(cfg.Density, DefaultFogDensity)}
	sc.Fog = fog
	sc.Background = fog.Color

	if p := svc.panel(cfg.Tweak); p != nil {
		f := p.AddFolder("Fog")
		f.AddColor("color", &fog.Color).OnChange(func() {
			sc.Background = fog.Color
		})
		f.AddNumber("density", &fog.Density, tweak.Range{Min: 0, Max: 0.1, Step: 0.00001})
	}
	return fog
}
